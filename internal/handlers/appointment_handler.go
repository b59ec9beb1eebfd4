package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/slotline/slotline-api/internal/domain/schedule"
	"github.com/slotline/slotline-api/internal/httperr"
	"github.com/slotline/slotline-api/internal/httpresp"
	ucSchedule "github.com/slotline/slotline-api/internal/usecase/schedule"
)

type AppointmentHandler struct {
	repo       domain.Repository
	create     *ucSchedule.CreateAppointment
	reschedule *ucSchedule.RescheduleAppointment
	cancel     *ucSchedule.CancelAppointment
}

func NewAppointmentHandler(
	repo domain.Repository,
	create *ucSchedule.CreateAppointment,
	reschedule *ucSchedule.RescheduleAppointment,
	cancel *ucSchedule.CancelAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		repo:       repo,
		create:     create,
		reschedule: reschedule,
		cancel:     cancel,
	}
}

// --------- Requests ---------

type CreateAppointmentRequest struct {
	TenantID uint  `json:"tenant_id" binding:"required"`
	StaffID  *uint `json:"staff_id"`

	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	CustomerEmail string `json:"customer_email"`

	ServiceID *uint `json:"service_id"`

	Date  string `json:"date" binding:"required"` // YYYY-MM-DD
	Time  string `json:"time" binding:"required"` // HH:mm
	Notes string `json:"notes"`
}

type RescheduleAppointmentRequest struct {
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	Time      string `json:"time" binding:"required"` // HH:mm
	ServiceID *uint  `json:"service_id"`
}

// --------- Handlers ---------

// POST /api/appointments
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucSchedule.CreateAppointmentInput{
		TenantID:      req.TenantID,
		Staff:         domain.StaffRefFromID(req.StaffID),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		ServiceID:     req.ServiceID,
		Date:          req.Date,
		Time:          req.Time,
		Notes:         req.Notes,
	})
	if err != nil {
		writeScheduleError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// PUT /api/appointments/:id
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	tenantID, ok := tenantFromToken(c)
	if !ok {
		return
	}
	ap, err := h.reschedule.Execute(c.Request.Context(), ucSchedule.RescheduleAppointmentInput{
		TenantID:      tenantID,
		AppointmentID: id,
		Date:          req.Date,
		Time:          req.Time,
		ServiceID:     req.ServiceID,
	})
	if err != nil {
		writeScheduleError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// PATCH /api/appointments/:id/cancel
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	tenantID, ok := tenantFromToken(c)
	if !ok {
		return
	}
	ap, err := h.cancel.Execute(c.Request.Context(), tenantID, id, time.Now())
	if err != nil {
		writeScheduleError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// GET /api/appointments?staff_id&from&to
func (h *AppointmentHandler) List(c *gin.Context) {
	tenantID, ok := tenantFromToken(c)
	if !ok {
		return
	}

	staffID, ok := optionalQueryUint(c, "staff_id")
	if !ok {
		return
	}

	from, to, err := parseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		httperr.BadRequest(c, "invalid_range", "from/to must be RFC3339 timestamps")
		return
	}

	apps, err := h.repo.ListAppointments(c.Request.Context(), tenantID, staffID, from, to)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "could not list appointments")
		return
	}

	httpresp.List(c, apps)
}
