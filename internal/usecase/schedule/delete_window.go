package schedule

import (
	"context"

	"github.com/slotline/slotline-api/internal/audit"
	domain "github.com/slotline/slotline-api/internal/domain/schedule"
	"github.com/slotline/slotline-api/internal/httperr"
)

type DeleteWindow struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache SlotCache
}

func NewDeleteWindow(
	repo domain.Repository,
	auditor *audit.Dispatcher,
	cache SlotCache,
) *DeleteWindow {
	return &DeleteWindow{repo: repo, audit: auditor, cache: cache}
}

// Execute hard-deletes a window; there is no soft-delete state for
// availability.
func (uc *DeleteWindow) Execute(
	ctx context.Context,
	tenantID uint,
	windowID uint,
) error {

	window, err := uc.repo.GetWindow(ctx, windowID)
	if err != nil || window.TenantID != tenantID {
		return httperr.ErrBusiness("window_not_found")
	}

	if err := uc.repo.DeleteWindow(ctx, windowID); err != nil {
		return err
	}

	if uc.cache != nil {
		uc.cache.Invalidate(ctx, tenantID)
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		Action:   "availability_deleted",
		Entity:   "availability_window",
		EntityID: &windowID,
	})

	return nil
}
