package schedule

import (
	"context"
	"time"

	"github.com/slotline/slotline-api/internal/audit"
	domain "github.com/slotline/slotline-api/internal/domain/schedule"
	"github.com/slotline/slotline-api/internal/httperr"
	"github.com/slotline/slotline-api/internal/models"
)

// CancelAppointment flips an appointment to the tenant's cancelled
// status, which frees its interval for slot generation and conflict
// checks.
type CancelAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache SlotCache
}

func NewCancelAppointment(
	repo domain.Repository,
	auditor *audit.Dispatcher,
	cache SlotCache,
) *CancelAppointment {
	return &CancelAppointment{repo: repo, audit: auditor, cache: cache}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	tenantID uint,
	appointmentID uint,
	now time.Time,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, tenantID, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	cancelledID, err := uc.repo.StatusIDByCode(ctx, tenantID, domain.StatusCodeCancelled)
	if err != nil {
		return nil, err
	}

	if ap.StatusID == cancelledID || ap.CancelledAt != nil {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	ap.StatusID = cancelledID
	ap.CancelledAt = &now

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.Invalidate(ctx, tenantID)
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
