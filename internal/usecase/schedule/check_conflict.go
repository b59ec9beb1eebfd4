package schedule

import (
	"context"

	domain "github.com/slotline/slotline-api/internal/domain/schedule"
	"github.com/slotline/slotline-api/internal/httperr"
)

// assertNoBookingConflict fails when a non-cancelled appointment for
// the same staff identity overlaps the interval. Appointment writes
// run it against the transaction-scoped repository so the competing
// rows stay locked until the write commits.
func assertNoBookingConflict(
	ctx context.Context,
	repo domain.Repository,
	tenantID uint,
	staff domain.StaffRef,
	interval domain.Interval,
	excludeAppointmentID uint,
) error {

	count, err := repo.CountActiveOverlapping(
		ctx,
		tenantID,
		staff,
		interval.Start,
		interval.End,
		excludeAppointmentID,
	)
	if err != nil {
		return err
	}
	if count > 0 {
		return httperr.ErrBusiness("time_conflict")
	}
	return nil
}

// ======================================================
// STANDALONE CHECK
// ======================================================

type CheckConflictInput struct {
	TenantID             uint
	Staff                domain.StaffRef
	Interval             domain.Interval
	ExcludeAppointmentID uint
}

// CheckConflict exposes the booking conflict test on its own, for
// callers that want a dry-run answer before attempting a write. The
// write paths re-run the same predicate inside their transaction, so
// a stale OK here can never produce a double-booking.
type CheckConflict struct {
	repo domain.Repository
}

func NewCheckConflict(repo domain.Repository) *CheckConflict {
	return &CheckConflict{repo: repo}
}

func (uc *CheckConflict) Execute(
	ctx context.Context,
	in CheckConflictInput,
) error {

	if !in.Interval.Valid() {
		return httperr.ErrBusiness("invalid_interval")
	}

	return assertNoBookingConflict(
		ctx,
		uc.repo,
		in.TenantID,
		in.Staff,
		in.Interval,
		in.ExcludeAppointmentID,
	)
}
