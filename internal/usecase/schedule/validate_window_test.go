package schedule

import (
	"context"
	"testing"
	"time"

	domain "github.com/slotline/slotline-api/internal/domain/schedule"
	"github.com/slotline/slotline-api/internal/httperr"
	"github.com/slotline/slotline-api/internal/models"
)

func at(h, m int) time.Time {
	return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC)
}

func seedWindow(f *fakeRepo, staffID *uint, start, end time.Time) *models.AvailabilityWindow {
	w := &models.AvailabilityWindow{TenantID: 1, StaffID: staffID, StartTime: start, EndTime: end}
	_ = f.CreateWindow(context.Background(), w)
	return w
}

func uintPtr(v uint) *uint { return &v }

func TestValidateWindow_RejectsTrueOverlap(t *testing.T) {
	repo := newFakeRepo()
	seedWindow(repo, uintPtr(1), at(10, 0), at(11, 0))

	uc := NewValidateWindow(repo)
	err := uc.Execute(context.Background(), ValidateWindowInput{
		TenantID: 1,
		Staff:    domain.SpecificStaff(1),
		Interval: domain.NewInterval(at(10, 30), at(11, 30)),
	})
	if !httperr.IsBusiness(err, "availability_conflict") {
		t.Fatalf("expected availability_conflict, got %v", err)
	}
}

func TestValidateWindow_AllowsBackToBack(t *testing.T) {
	repo := newFakeRepo()
	seedWindow(repo, uintPtr(1), at(10, 0), at(11, 0))

	uc := NewValidateWindow(repo)
	err := uc.Execute(context.Background(), ValidateWindowInput{
		TenantID: 1,
		Staff:    domain.SpecificStaff(1),
		Interval: domain.NewInterval(at(11, 0), at(12, 0)),
	})
	if err != nil {
		t.Fatalf("back-to-back window must be accepted, got %v", err)
	}
}

func TestValidateWindow_OtherStaffDoesNotConflict(t *testing.T) {
	repo := newFakeRepo()
	seedWindow(repo, uintPtr(2), at(10, 0), at(11, 0))

	uc := NewValidateWindow(repo)
	err := uc.Execute(context.Background(), ValidateWindowInput{
		TenantID: 1,
		Staff:    domain.SpecificStaff(1),
		Interval: domain.NewInterval(at(10, 0), at(11, 0)),
	})
	if err != nil {
		t.Fatalf("windows of different staff must not conflict, got %v", err)
	}
}

func TestValidateWindow_AnyStaffCandidateChecksEveryStaff(t *testing.T) {
	repo := newFakeRepo()
	seedWindow(repo, uintPtr(2), at(10, 0), at(11, 0))

	// The any-staff candidate collides with a specific staff window.
	uc := NewValidateWindow(repo)
	err := uc.Execute(context.Background(), ValidateWindowInput{
		TenantID: 1,
		Staff:    domain.AnyStaff(),
		Interval: domain.NewInterval(at(10, 30), at(11, 30)),
	})
	if !httperr.IsBusiness(err, "availability_conflict") {
		t.Fatalf("any-staff candidate must be checked against every staff, got %v", err)
	}
}

func TestValidateWindow_SpecificCandidateIgnoresAnyStaffWindows(t *testing.T) {
	repo := newFakeRepo()
	seedWindow(repo, nil, at(10, 0), at(11, 0))

	uc := NewValidateWindow(repo)
	err := uc.Execute(context.Background(), ValidateWindowInput{
		TenantID: 1,
		Staff:    domain.SpecificStaff(1),
		Interval: domain.NewInterval(at(10, 0), at(11, 0)),
	})
	if err != nil {
		t.Fatalf("specific candidate must not conflict with any-staff windows, got %v", err)
	}
}

func TestValidateWindow_ExcludesSelfOnUpdate(t *testing.T) {
	repo := newFakeRepo()
	w := seedWindow(repo, uintPtr(1), at(10, 0), at(11, 0))

	uc := NewValidateWindow(repo)
	err := uc.Execute(context.Background(), ValidateWindowInput{
		TenantID:        1,
		Staff:           domain.SpecificStaff(1),
		Interval:        domain.NewInterval(at(10, 15), at(11, 15)),
		ExcludeWindowID: w.ID,
	})
	if err != nil {
		t.Fatalf("a window must not conflict with itself during update, got %v", err)
	}
}

func TestValidateWindow_RejectsInvalidInterval(t *testing.T) {
	repo := newFakeRepo()
	uc := NewValidateWindow(repo)
	err := uc.Execute(context.Background(), ValidateWindowInput{
		TenantID: 1,
		Staff:    domain.SpecificStaff(1),
		Interval: domain.NewInterval(at(11, 0), at(10, 0)),
	})
	if !httperr.IsBusiness(err, "invalid_interval") {
		t.Fatalf("expected invalid_interval, got %v", err)
	}
}

func TestSaveWindow_PersistsAndInvalidatesCache(t *testing.T) {
	repo := newFakeRepo()
	cache := newFakeCache()
	uc := NewSaveWindow(repo, newTestDispatcher(t), cache)

	w, err := uc.Execute(context.Background(), SaveWindowInput{
		TenantID: 1,
		Staff:    domain.SpecificStaff(1),
		Start:    at(9, 0),
		End:      at(12, 0),
	})
	if err != nil {
		t.Fatalf("save window: %v", err)
	}
	if w.ID == 0 {
		t.Fatalf("window must be persisted with an id")
	}
	if cache.invalidations != 1 {
		t.Fatalf("write must invalidate the slot cache, got %d invalidations", cache.invalidations)
	}

	// Overlapping second window is rejected and not stored.
	_, err = uc.Execute(context.Background(), SaveWindowInput{
		TenantID: 1,
		Staff:    domain.SpecificStaff(1),
		Start:    at(11, 0),
		End:      at(13, 0),
	})
	if !httperr.IsBusiness(err, "availability_conflict") {
		t.Fatalf("expected availability_conflict, got %v", err)
	}
	if len(repo.windows) != 1 {
		t.Fatalf("rejected window must not be persisted, have %d", len(repo.windows))
	}
}

func TestSaveWindow_UnknownTenantAndStaff(t *testing.T) {
	repo := newFakeRepo()
	uc := NewSaveWindow(repo, newTestDispatcher(t), nil)

	_, err := uc.Execute(context.Background(), SaveWindowInput{
		TenantID: 99,
		Staff:    domain.AnyStaff(),
		Start:    at(9, 0),
		End:      at(10, 0),
	})
	if !httperr.IsBusiness(err, "tenant_not_found") {
		t.Fatalf("expected tenant_not_found, got %v", err)
	}

	_, err = uc.Execute(context.Background(), SaveWindowInput{
		TenantID: 1,
		Staff:    domain.SpecificStaff(42),
		Start:    at(9, 0),
		End:      at(10, 0),
	})
	if !httperr.IsBusiness(err, "staff_not_found") {
		t.Fatalf("expected staff_not_found, got %v", err)
	}
}
