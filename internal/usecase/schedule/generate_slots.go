package schedule

import (
	"context"
	"time"

	domain "github.com/slotline/slotline-api/internal/domain/schedule"
)

// ======================================================
// INPUT
// ======================================================

type GenerateSlotsInput struct {
	TenantID uint

	// Date is any instant inside the requested day, already in the
	// tenant's timezone.
	Date time.Time

	// ServiceID sizes the slots; nil or unresolvable falls back to the
	// 30-minute default.
	ServiceID *uint

	// StaffID narrows windows and appointments to one staff member.
	StaffID *uint
}

// ======================================================
// USE CASE
// ======================================================

// GenerateSlots turns the day's availability windows minus its
// non-cancelled appointments into an ordered list of bookable slots.
// It is read-only and a pure function of stored state, so results are
// safe to cache and to recompute on retry.
type GenerateSlots struct {
	repo  domain.Repository
	cache SlotCache
}

func NewGenerateSlots(repo domain.Repository, cache SlotCache) *GenerateSlots {
	return &GenerateSlots{repo: repo, cache: cache}
}

func (uc *GenerateSlots) Execute(
	ctx context.Context,
	in GenerateSlotsInput,
) ([]domain.Slot, error) {

	if uc.cache != nil {
		if slots, ok := uc.cache.Get(ctx, in.TenantID, in.Date, in.ServiceID, in.StaffID); ok {
			return slots, nil
		}
	}

	dayStart, dayEnd := domain.DayBounds(in.Date)

	duration := domain.DefaultSlotDuration
	if in.ServiceID != nil {
		if svc, err := uc.repo.GetService(ctx, in.TenantID, *in.ServiceID); err == nil && svc.DurationMin > 0 {
			duration = time.Duration(svc.DurationMin) * time.Minute
		}
	}

	windows, err := uc.repo.ListWindows(ctx, in.TenantID, in.StaffID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	appointments, err := uc.repo.ListActiveAppointments(ctx, in.TenantID, in.StaffID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	spans := make([]domain.WindowSpan, 0, len(windows))
	for _, w := range windows {
		name := ""
		if w.Staff != nil {
			name = w.Staff.Name
		}
		spans = append(spans, domain.WindowSpan{
			Staff:     domain.StaffRefFromID(w.StaffID),
			StaffName: name,
			Interval:  domain.NewInterval(w.StartTime, w.EndTime),
		})
	}

	busy := make([]domain.Busy, 0, len(appointments))
	for _, ap := range appointments {
		busy = append(busy, domain.Busy{
			Staff:    domain.StaffRefFromID(ap.StaffID),
			Interval: domain.NewInterval(ap.StartTime, ap.EndTime),
		})
	}

	slots := domain.BuildSlots(spans, busy, duration, dayStart, dayEnd)

	if uc.cache != nil {
		uc.cache.Set(ctx, in.TenantID, in.Date, in.ServiceID, in.StaffID, slots)
	}

	return slots, nil
}
