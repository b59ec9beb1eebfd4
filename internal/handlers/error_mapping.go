package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/slotline/slotline-api/internal/httperr"
)

// Business codes raised by the scheduling use cases, mapped to the
// user-facing contract. Everything unknown is a 500.
var businessMessages = map[string]string{
	"invalid_interval":      "start time must be before end time",
	"invalid_date_or_time":  "invalid date or time",
	"tenant_not_found":      "tenant not found",
	"staff_not_found":       "staff member not found for this tenant",
	"service_not_found":     "service not found",
	"window_not_found":      "availability window not found",
	"appointment_not_found": "appointment not found",
	"availability_conflict": "an availability already exists in this time range",
	"time_conflict":         "the requested time is no longer available",
	"invalid_state":         "the appointment is not in a state that allows this change",
}

var notFoundCodes = map[string]bool{
	"window_not_found":      true,
	"appointment_not_found": true,
}

func writeScheduleError(c *gin.Context, err error) {
	code := httperr.BusinessCode(err)
	msg, known := businessMessages[code]
	if !known {
		httperr.Internal(c, "internal_error", "unexpected error")
		return
	}
	if notFoundCodes[code] {
		httperr.NotFound(c, code, msg)
		return
	}
	httperr.BadRequest(c, code, msg)
}
