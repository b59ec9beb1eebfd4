package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/slotline/slotline-api/internal/audit"
	domain "github.com/slotline/slotline-api/internal/domain/schedule"
	"github.com/slotline/slotline-api/internal/models"
)

// newTestDispatcher returns a dispatcher with no database behind it;
// audit writes become no-ops.
func newTestDispatcher(t *testing.T) *audit.Dispatcher {
	t.Helper()
	return audit.NewDispatcher(audit.New(nil), zerolog.Nop())
}

var errNotFound = errors.New("record not found")

// fakeRepo is an in-memory schedule.Repository for use case tests.
type fakeRepo struct {
	tenants      map[uint]*models.Tenant
	staff        map[uint]*models.Staff
	services     map[uint]*models.Service
	statuses     map[uint]map[string]uint
	windows      map[uint]*models.AvailabilityWindow
	appointments map[uint]*models.Appointment
	customers    map[uint]*models.Customer
	nextID       uint
}

// newFakeRepo seeds tenant 1 (UTC) with staff Ana(1) and Bruno(2), a
// 45-minute service 10, and the standard status rows.
func newFakeRepo() *fakeRepo {
	f := &fakeRepo{
		tenants:      map[uint]*models.Tenant{},
		staff:        map[uint]*models.Staff{},
		services:     map[uint]*models.Service{},
		statuses:     map[uint]map[string]uint{},
		windows:      map[uint]*models.AvailabilityWindow{},
		appointments: map[uint]*models.Appointment{},
		customers:    map[uint]*models.Customer{},
		nextID:       100,
	}

	f.tenants[1] = &models.Tenant{ID: 1, Name: "Studio One", Slug: "studio-one", Timezone: "UTC"}
	f.staff[1] = &models.Staff{ID: 1, TenantID: 1, Name: "Ana"}
	f.staff[2] = &models.Staff{ID: 2, TenantID: 1, Name: "Bruno"}
	f.services[10] = &models.Service{ID: 10, TenantID: 1, Name: "Deep Clean", DurationMin: 45}
	f.statuses[1] = map[string]uint{
		domain.StatusCodeBooked:    1,
		domain.StatusCodeCompleted: 2,
		domain.StatusCodeCancelled: 3,
		domain.StatusCodeNoShow:    4,
	}

	return f
}

func (f *fakeRepo) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeRepo) GetTenantByID(_ context.Context, id uint) (*models.Tenant, error) {
	if t, ok := f.tenants[id]; ok {
		return t, nil
	}
	return nil, errNotFound
}

func (f *fakeRepo) GetStaff(_ context.Context, tenantID, staffID uint) (*models.Staff, error) {
	if s, ok := f.staff[staffID]; ok && s.TenantID == tenantID {
		return s, nil
	}
	return nil, errNotFound
}

func (f *fakeRepo) GetService(_ context.Context, tenantID, serviceID uint) (*models.Service, error) {
	if s, ok := f.services[serviceID]; ok && s.TenantID == tenantID {
		return s, nil
	}
	return nil, errNotFound
}

func (f *fakeRepo) StatusIDByCode(_ context.Context, tenantID uint, code string) (uint, error) {
	if id, ok := f.statuses[tenantID][code]; ok {
		return id, nil
	}
	return 0, errNotFound
}

func (f *fakeRepo) GetWindow(_ context.Context, id uint) (*models.AvailabilityWindow, error) {
	if w, ok := f.windows[id]; ok {
		return w, nil
	}
	return nil, errNotFound
}

func (f *fakeRepo) ListWindows(
	_ context.Context,
	tenantID uint,
	staffID *uint,
	from time.Time,
	to time.Time,
) ([]models.AvailabilityWindow, error) {

	var out []models.AvailabilityWindow
	for _, w := range f.windows {
		if w.TenantID != tenantID {
			continue
		}
		if staffID != nil && (w.StaffID == nil || *w.StaffID != *staffID) {
			continue
		}
		if !w.StartTime.Before(to) || !w.EndTime.After(from) {
			continue
		}
		cp := *w
		if w.StaffID != nil {
			cp.Staff = f.staff[*w.StaffID]
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].StartTime.Before(out[b].StartTime) })
	return out, nil
}

func (f *fakeRepo) CreateWindow(_ context.Context, w *models.AvailabilityWindow) error {
	w.ID = f.id()
	f.windows[w.ID] = w
	return nil
}

func (f *fakeRepo) UpdateWindow(_ context.Context, w *models.AvailabilityWindow) error {
	if _, ok := f.windows[w.ID]; !ok {
		return errNotFound
	}
	f.windows[w.ID] = w
	return nil
}

func (f *fakeRepo) DeleteWindow(_ context.Context, id uint) error {
	delete(f.windows, id)
	return nil
}

func (f *fakeRepo) GetAppointment(_ context.Context, tenantID, id uint) (*models.Appointment, error) {
	if ap, ok := f.appointments[id]; ok && ap.TenantID == tenantID {
		return ap, nil
	}
	return nil, errNotFound
}

func (f *fakeRepo) ListAppointments(
	_ context.Context,
	tenantID uint,
	staffID *uint,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {
	return f.listAppointments(tenantID, staffID, from, to, false), nil
}

func (f *fakeRepo) ListActiveAppointments(
	_ context.Context,
	tenantID uint,
	staffID *uint,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {
	return f.listAppointments(tenantID, staffID, from, to, true), nil
}

func (f *fakeRepo) listAppointments(
	tenantID uint,
	staffID *uint,
	from time.Time,
	to time.Time,
	activeOnly bool,
) []models.Appointment {

	cancelledID := f.statuses[tenantID][domain.StatusCodeCancelled]

	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.TenantID != tenantID {
			continue
		}
		if staffID != nil && (ap.StaffID == nil || *ap.StaffID != *staffID) {
			continue
		}
		if !ap.StartTime.Before(to) || !ap.EndTime.After(from) {
			continue
		}
		if activeOnly && ap.StatusID == cancelledID {
			continue
		}
		out = append(out, *ap)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].StartTime.Before(out[b].StartTime) })
	return out
}

func (f *fakeRepo) CountActiveOverlapping(
	_ context.Context,
	tenantID uint,
	staff domain.StaffRef,
	start time.Time,
	end time.Time,
	excludeID uint,
) (int64, error) {

	cancelledID := f.statuses[tenantID][domain.StatusCodeCancelled]

	var count int64
	for _, ap := range f.appointments {
		if ap.TenantID != tenantID || ap.ID == excludeID || ap.StatusID == cancelledID {
			continue
		}
		if !domain.StaffRefFromID(ap.StaffID).SameIdentity(staff) {
			continue
		}
		if ap.StartTime.Before(end) && ap.EndTime.After(start) {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	ap.ID = f.id()
	f.appointments[ap.ID] = ap
	return nil
}

func (f *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	if _, ok := f.appointments[ap.ID]; !ok {
		return errNotFound
	}
	f.appointments[ap.ID] = ap
	return nil
}

func (f *fakeRepo) GetOrCreateCustomer(
	_ context.Context,
	tenantID uint,
	name string,
	phone string,
	email string,
) (*models.Customer, error) {

	for _, cu := range f.customers {
		if cu.TenantID == tenantID && cu.Phone == phone {
			return cu, nil
		}
	}
	cu := &models.Customer{ID: f.id(), TenantID: tenantID, Name: name, Phone: phone, Email: email}
	f.customers[cu.ID] = cu
	return cu, nil
}

// WithinTx mimics rollback by restoring the row maps when fn fails.
func (f *fakeRepo) WithinTx(_ context.Context, fn func(domain.Repository) error) error {
	windows := copyMap(f.windows)
	appointments := copyMap(f.appointments)
	customers := copyMap(f.customers)

	if err := fn(f); err != nil {
		f.windows = windows
		f.appointments = appointments
		f.customers = customers
		return err
	}
	return nil
}

func copyMap[V any](src map[uint]V) map[uint]V {
	dst := make(map[uint]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

var _ domain.Repository = (*fakeRepo)(nil)

// fakeCache records slot cache traffic.
type fakeCache struct {
	store         map[string][]domain.Slot
	invalidations int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string][]domain.Slot{}}
}

func cacheKey(tenantID uint, date time.Time, serviceID, staffID *uint) string {
	svc, staff := uint(0), uint(0)
	if serviceID != nil {
		svc = *serviceID
	}
	if staffID != nil {
		staff = *staffID
	}
	return fmt.Sprintf("%d:%s:%d:%d", tenantID, date.Format("2006-01-02"), svc, staff)
}

func (f *fakeCache) Get(_ context.Context, tenantID uint, date time.Time, serviceID, staffID *uint) ([]domain.Slot, bool) {
	slots, ok := f.store[cacheKey(tenantID, date, serviceID, staffID)]
	return slots, ok
}

func (f *fakeCache) Set(_ context.Context, tenantID uint, date time.Time, serviceID, staffID *uint, slots []domain.Slot) {
	f.store[cacheKey(tenantID, date, serviceID, staffID)] = slots
}

func (f *fakeCache) Invalidate(_ context.Context, _ uint) {
	f.invalidations++
	f.store = map[string][]domain.Slot{}
}

var _ SlotCache = (*fakeCache)(nil)
