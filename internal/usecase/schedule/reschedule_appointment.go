package schedule

import (
	"context"
	"time"

	"github.com/slotline/slotline-api/internal/audit"
	domain "github.com/slotline/slotline-api/internal/domain/schedule"
	"github.com/slotline/slotline-api/internal/httperr"
	"github.com/slotline/slotline-api/internal/models"
	"github.com/slotline/slotline-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type RescheduleAppointmentInput struct {
	TenantID      uint
	AppointmentID uint

	Date string // YYYY-MM-DD
	Time string // HH:mm

	// ServiceID re-sizes the appointment when set; nil keeps the
	// current service and its duration.
	ServiceID *uint
}

// ======================================================
// USE CASE
// ======================================================

// RescheduleAppointment moves an appointment, excluding it from its
// own conflict check and gating the update transactionally like a
// create.
type RescheduleAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache SlotCache
}

func NewRescheduleAppointment(
	repo domain.Repository,
	auditor *audit.Dispatcher,
	cache SlotCache,
) *RescheduleAppointment {
	return &RescheduleAppointment{repo: repo, audit: auditor, cache: cache}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleAppointmentInput,
) (*models.Appointment, error) {

	tenant, err := uc.repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, httperr.ErrBusiness("tenant_not_found")
	}

	ap, err := uc.repo.GetAppointment(ctx, in.TenantID, in.AppointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	if ap.CancelledAt != nil {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(tenant.Timezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	serviceID := ap.ServiceID
	if in.ServiceID != nil {
		serviceID = in.ServiceID
	}

	duration := domain.DefaultSlotDuration
	if serviceID != nil {
		svc, err := uc.repo.GetService(ctx, in.TenantID, *serviceID)
		if err != nil {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		if svc.DurationMin > 0 {
			duration = time.Duration(svc.DurationMin) * time.Minute
		}
	}
	end := start.Add(duration)

	staff := domain.StaffRefFromID(ap.StaffID)

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		if err := assertNoBookingConflict(
			ctx, tx, in.TenantID, staff,
			domain.NewInterval(start, end), ap.ID,
		); err != nil {
			return err
		}
		ap.ServiceID = serviceID
		ap.StartTime = start
		ap.EndTime = end
		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.Invalidate(ctx, in.TenantID)
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
