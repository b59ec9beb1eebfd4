package schedule

import (
	"context"

	domain "github.com/slotline/slotline-api/internal/domain/schedule"
	"github.com/slotline/slotline-api/internal/httperr"
)

// ======================================================
// INPUT
// ======================================================

type ValidateWindowInput struct {
	TenantID uint
	Staff    domain.StaffRef
	Interval domain.Interval

	// ExcludeWindowID keeps a window from conflicting with itself
	// during an update. Zero means nothing is excluded.
	ExcludeWindowID uint
}

// ======================================================
// USE CASE
// ======================================================

// ValidateWindow is the overlap validator: it accepts a candidate
// availability window only when it overlaps no existing window for the
// matching staff identities. The check is read-only; persisting is the
// caller's job.
type ValidateWindow struct {
	repo domain.Repository
}

func NewValidateWindow(repo domain.Repository) *ValidateWindow {
	return &ValidateWindow{repo: repo}
}

func (uc *ValidateWindow) Execute(
	ctx context.Context,
	in ValidateWindowInput,
) error {

	if !in.Interval.Valid() {
		return httperr.ErrBusiness("invalid_interval")
	}

	// An any-staff candidate loads every window of the tenant; a
	// specific candidate only that staff member's windows.
	var staffFilter *uint
	if id, ok := in.Staff.ID(); ok {
		staffFilter = &id
	}

	windows, err := uc.repo.ListWindows(
		ctx,
		in.TenantID,
		staffFilter,
		in.Interval.Start,
		in.Interval.End,
	)
	if err != nil {
		return err
	}

	for _, w := range windows {
		if in.ExcludeWindowID != 0 && w.ID == in.ExcludeWindowID {
			continue
		}
		if !in.Staff.MatchesWindow(domain.StaffRefFromID(w.StaffID)) {
			continue
		}
		if in.Interval.Overlaps(domain.NewInterval(w.StartTime, w.EndTime)) {
			return httperr.ErrBusiness("availability_conflict")
		}
	}

	return nil
}
