package schedule

import (
	"context"
	"testing"
	"time"

	domain "github.com/slotline/slotline-api/internal/domain/schedule"
	"github.com/slotline/slotline-api/internal/httperr"
)

func createBooking(t *testing.T, uc *CreateAppointment, staff domain.StaffRef, timeStr string) error {
	t.Helper()
	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		TenantID:      1,
		Staff:         staff,
		CustomerName:  "Carla",
		CustomerPhone: "+5511999990000",
		Date:          "2026-03-10",
		Time:          timeStr,
	})
	return err
}

func TestCreateAppointment_RejectsDoubleBooking(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, newTestDispatcher(t), nil)

	if err := createBooking(t, uc, domain.SpecificStaff(1), "10:00"); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	// Overlaps [10:00, 10:30).
	err := createBooking(t, uc, domain.SpecificStaff(1), "10:15")
	if !httperr.IsBusiness(err, "time_conflict") {
		t.Fatalf("expected time_conflict, got %v", err)
	}
	if len(repo.appointments) != 1 {
		t.Fatalf("conflicting booking must not be persisted, have %d", len(repo.appointments))
	}
}

func TestCreateAppointment_BackToBackIsAllowed(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, newTestDispatcher(t), nil)

	if err := createBooking(t, uc, domain.SpecificStaff(1), "10:00"); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if err := createBooking(t, uc, domain.SpecificStaff(1), "10:30"); err != nil {
		t.Fatalf("back-to-back booking must succeed, got %v", err)
	}
}

func TestCreateAppointment_OtherStaffDoesNotConflict(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, newTestDispatcher(t), nil)

	if err := createBooking(t, uc, domain.SpecificStaff(1), "10:00"); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if err := createBooking(t, uc, domain.SpecificStaff(2), "10:00"); err != nil {
		t.Fatalf("another staff member's booking must succeed, got %v", err)
	}
	// The any-staff identity is its own lane as well.
	if err := createBooking(t, uc, domain.AnyStaff(), "10:00"); err != nil {
		t.Fatalf("any-staff booking must not collide with specific staff, got %v", err)
	}
	if err := createBooking(t, uc, domain.AnyStaff(), "10:00"); !httperr.IsBusiness(err, "time_conflict") {
		t.Fatalf("any-staff bookings must collide with each other, got %v", err)
	}
}

func TestCreateAppointment_RejectedBookingLeavesNoCustomer(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, newTestDispatcher(t), nil)

	if err := createBooking(t, uc, domain.SpecificStaff(1), "10:00"); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	before := len(repo.customers)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		TenantID:      1,
		Staff:         domain.SpecificStaff(1),
		CustomerName:  "Diego",
		CustomerPhone: "+5511888880000",
		Date:          "2026-03-10",
		Time:          "10:15",
	})
	if !httperr.IsBusiness(err, "time_conflict") {
		t.Fatalf("expected time_conflict, got %v", err)
	}
	if len(repo.customers) != before {
		t.Fatalf("rejected booking must roll the customer back, have %d customers", len(repo.customers))
	}
}

func TestCreateAppointment_UsesServiceDuration(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, newTestDispatcher(t), nil)

	ap, err := uc.Execute(context.Background(), CreateAppointmentInput{
		TenantID:      1,
		Staff:         domain.SpecificStaff(1),
		CustomerName:  "Carla",
		CustomerPhone: "+5511999990000",
		ServiceID:     uintPtr(10),
		Date:          "2026-03-10",
		Time:          "10:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ap.EndTime.Sub(ap.StartTime) != 45*time.Minute {
		t.Fatalf("appointment must span the service duration, got %s", ap.EndTime.Sub(ap.StartTime))
	}
	if ap.StatusID != repo.statuses[1][domain.StatusCodeBooked] {
		t.Fatalf("new appointment must carry the booked status")
	}
}

func TestCancelThenRebook(t *testing.T) {
	repo := newFakeRepo()
	createUC := NewCreateAppointment(repo, newTestDispatcher(t), nil)
	cancelUC := NewCancelAppointment(repo, newTestDispatcher(t), nil)

	ap, err := createUC.Execute(context.Background(), CreateAppointmentInput{
		TenantID:      1,
		Staff:         domain.SpecificStaff(1),
		CustomerName:  "Carla",
		CustomerPhone: "+5511999990000",
		Date:          "2026-03-10",
		Time:          "10:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := cancelUC.Execute(context.Background(), 1, ap.ID, at(9, 0)); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// Cancelling twice is an invalid state transition.
	if _, err := cancelUC.Execute(context.Background(), 1, ap.ID, at(9, 5)); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state on double cancel, got %v", err)
	}

	// The cancelled interval is free again.
	if err := createBooking(t, createUC, domain.SpecificStaff(1), "10:00"); err != nil {
		t.Fatalf("rebooking a cancelled slot must succeed, got %v", err)
	}
}

func TestRescheduleAppointment_ExcludesSelf(t *testing.T) {
	repo := newFakeRepo()
	createUC := NewCreateAppointment(repo, newTestDispatcher(t), nil)
	reschedUC := NewRescheduleAppointment(repo, newTestDispatcher(t), nil)

	ap, err := createUC.Execute(context.Background(), CreateAppointmentInput{
		TenantID:      1,
		Staff:         domain.SpecificStaff(1),
		CustomerName:  "Carla",
		CustomerPhone: "+5511999990000",
		Date:          "2026-03-10",
		Time:          "10:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Shifting within its own original span must not self-conflict.
	moved, err := reschedUC.Execute(context.Background(), RescheduleAppointmentInput{
		TenantID:      1,
		AppointmentID: ap.ID,
		Date:          "2026-03-10",
		Time:          "10:15",
	})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if !moved.StartTime.Equal(at(10, 15)) {
		t.Fatalf("start not updated, got %s", moved.StartTime)
	}

	// A second appointment blocks the move into its span.
	if err := createBooking(t, createUC, domain.SpecificStaff(1), "11:00"); err != nil {
		t.Fatalf("second booking: %v", err)
	}
	_, err = reschedUC.Execute(context.Background(), RescheduleAppointmentInput{
		TenantID:      1,
		AppointmentID: ap.ID,
		Date:          "2026-03-10",
		Time:          "11:15",
	})
	if !httperr.IsBusiness(err, "time_conflict") {
		t.Fatalf("expected time_conflict, got %v", err)
	}
}

func TestCheckConflict_Standalone(t *testing.T) {
	repo := newFakeRepo()
	seedAppointment(repo, uintPtr(1), at(10, 0), at(11, 0), domain.StatusCodeBooked)

	uc := NewCheckConflict(repo)

	err := uc.Execute(context.Background(), CheckConflictInput{
		TenantID: 1,
		Staff:    domain.SpecificStaff(1),
		Interval: domain.NewInterval(at(10, 30), at(11, 30)),
	})
	if !httperr.IsBusiness(err, "time_conflict") {
		t.Fatalf("expected time_conflict, got %v", err)
	}

	err = uc.Execute(context.Background(), CheckConflictInput{
		TenantID: 1,
		Staff:    domain.SpecificStaff(1),
		Interval: domain.NewInterval(at(11, 0), at(12, 0)),
	})
	if err != nil {
		t.Fatalf("boundary touch must not conflict, got %v", err)
	}
}

func TestCreateAppointment_UnknownServiceFails(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, newTestDispatcher(t), nil)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		TenantID:      1,
		Staff:         domain.SpecificStaff(1),
		CustomerName:  "Carla",
		CustomerPhone: "+5511999990000",
		ServiceID:     uintPtr(999),
		Date:          "2026-03-10",
		Time:          "10:00",
	})
	if !httperr.IsBusiness(err, "service_not_found") {
		t.Fatalf("expected service_not_found, got %v", err)
	}
}
