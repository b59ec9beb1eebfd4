package schedule

import (
	"context"
	"time"

	"github.com/slotline/slotline-api/internal/audit"
	domain "github.com/slotline/slotline-api/internal/domain/schedule"
	"github.com/slotline/slotline-api/internal/httperr"
	"github.com/slotline/slotline-api/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type SaveWindowInput struct {
	TenantID uint
	Staff    domain.StaffRef

	Start time.Time
	End   time.Time
	Note  string

	// WindowID is set for updates and zero for creates.
	WindowID uint
}

// ======================================================
// USE CASE
// ======================================================

// SaveWindow creates or updates an availability window after running
// the overlap validator against the rest of the tenant's windows.
type SaveWindow struct {
	repo     domain.Repository
	validate *ValidateWindow
	audit    *audit.Dispatcher
	cache    SlotCache
}

func NewSaveWindow(
	repo domain.Repository,
	auditor *audit.Dispatcher,
	cache SlotCache,
) *SaveWindow {
	return &SaveWindow{
		repo:     repo,
		validate: NewValidateWindow(repo),
		audit:    auditor,
		cache:    cache,
	}
}

func (uc *SaveWindow) Execute(
	ctx context.Context,
	in SaveWindowInput,
) (*models.AvailabilityWindow, error) {

	if !in.Start.Before(in.End) {
		return nil, httperr.ErrBusiness("invalid_interval")
	}

	if _, err := uc.repo.GetTenantByID(ctx, in.TenantID); err != nil {
		return nil, httperr.ErrBusiness("tenant_not_found")
	}

	if id, ok := in.Staff.ID(); ok {
		if _, err := uc.repo.GetStaff(ctx, in.TenantID, id); err != nil {
			return nil, httperr.ErrBusiness("staff_not_found")
		}
	}

	var window *models.AvailabilityWindow
	if in.WindowID != 0 {
		existing, err := uc.repo.GetWindow(ctx, in.WindowID)
		if err != nil || existing.TenantID != in.TenantID {
			return nil, httperr.ErrBusiness("window_not_found")
		}
		window = existing
	}

	if err := uc.validate.Execute(ctx, ValidateWindowInput{
		TenantID:        in.TenantID,
		Staff:           in.Staff,
		Interval:        domain.NewInterval(in.Start, in.End),
		ExcludeWindowID: in.WindowID,
	}); err != nil {
		return nil, err
	}

	action := "availability_created"
	if window == nil {
		window = &models.AvailabilityWindow{TenantID: in.TenantID}
	} else {
		action = "availability_updated"
	}
	window.StaffID = in.Staff.Pointer()
	window.StartTime = in.Start
	window.EndTime = in.End
	window.Note = in.Note

	var err error
	if in.WindowID != 0 {
		err = uc.repo.UpdateWindow(ctx, window)
	} else {
		err = uc.repo.CreateWindow(ctx, window)
	}
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.Invalidate(ctx, in.TenantID)
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		Action:   action,
		Entity:   "availability_window",
		EntityID: &window.ID,
	})

	return window, nil
}
