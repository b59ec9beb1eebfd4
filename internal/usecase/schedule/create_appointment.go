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

type CreateAppointmentInput struct {
	TenantID uint
	Staff    domain.StaffRef

	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	ServiceID *uint

	Date  string // YYYY-MM-DD
	Time  string // HH:mm
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

// CreateAppointment books a customer, re-checking the booking conflict
// inside the same transaction as the insert. Two concurrent bookings
// of the same slot serialize on the row locks, so only one commits.
type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache SlotCache
}

func NewCreateAppointment(
	repo domain.Repository,
	auditor *audit.Dispatcher,
	cache SlotCache,
) *CreateAppointment {
	return &CreateAppointment{repo: repo, audit: auditor, cache: cache}
}

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	tenant, err := uc.repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, httperr.ErrBusiness("tenant_not_found")
	}

	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(tenant.Timezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	if id, ok := in.Staff.ID(); ok {
		if _, err := uc.repo.GetStaff(ctx, in.TenantID, id); err != nil {
			return nil, httperr.ErrBusiness("staff_not_found")
		}
	}

	duration := domain.DefaultSlotDuration
	if in.ServiceID != nil {
		svc, err := uc.repo.GetService(ctx, in.TenantID, *in.ServiceID)
		if err != nil {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		if svc.DurationMin > 0 {
			duration = time.Duration(svc.DurationMin) * time.Minute
		}
	}
	end := start.Add(duration)

	statusID, err := uc.repo.StatusIDByCode(ctx, in.TenantID, domain.StatusCodeBooked)
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		TenantID:  in.TenantID,
		StaffID:   in.Staff.Pointer(),
		ServiceID: in.ServiceID,
		StatusID:  statusID,
		StartTime: start,
		EndTime:   end,
		Notes:     in.Notes,
	}

	// The customer upsert lives inside the transaction so a rejected
	// booking rolls it back with everything else.
	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		if err := assertNoBookingConflict(
			ctx, tx, in.TenantID, in.Staff,
			domain.NewInterval(start, end), 0,
		); err != nil {
			return err
		}

		customer, err := tx.GetOrCreateCustomer(
			ctx,
			in.TenantID,
			in.CustomerName,
			in.CustomerPhone,
			in.CustomerEmail,
		)
		if err != nil {
			return err
		}
		ap.CustomerID = &customer.ID

		return tx.CreateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.Invalidate(ctx, in.TenantID)
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
