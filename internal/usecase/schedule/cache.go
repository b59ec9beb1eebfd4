package schedule

import (
	"context"
	"time"

	domain "github.com/slotline/slotline-api/internal/domain/schedule"
)

// SlotCache holds generated slot lists between writes. A nil cache is
// valid and disables caching.
type SlotCache interface {
	Get(
		ctx context.Context,
		tenantID uint,
		date time.Time,
		serviceID *uint,
		staffID *uint,
	) ([]domain.Slot, bool)

	Set(
		ctx context.Context,
		tenantID uint,
		date time.Time,
		serviceID *uint,
		staffID *uint,
		slots []domain.Slot,
	)

	// Invalidate drops every cached slot list of the tenant.
	Invalidate(ctx context.Context, tenantID uint)
}
