package schedule

import (
	"context"
	"time"

	"github.com/slotline/slotline-api/internal/models"
)

// Repository is the storage collaborator consumed by the scheduling
// engine. List methods return rows intersecting [from, to) for the
// tenant, narrowed to one staff member when staffID is non-nil.
type Repository interface {
	// -------- Lookups --------
	GetTenantByID(
		ctx context.Context,
		id uint,
	) (*models.Tenant, error)

	GetStaff(
		ctx context.Context,
		tenantID uint,
		staffID uint,
	) (*models.Staff, error)

	GetService(
		ctx context.Context,
		tenantID uint,
		serviceID uint,
	) (*models.Service, error)

	StatusIDByCode(
		ctx context.Context,
		tenantID uint,
		code string,
	) (uint, error)

	// -------- Availability windows --------
	GetWindow(
		ctx context.Context,
		id uint,
	) (*models.AvailabilityWindow, error)

	ListWindows(
		ctx context.Context,
		tenantID uint,
		staffID *uint,
		from time.Time,
		to time.Time,
	) ([]models.AvailabilityWindow, error)

	CreateWindow(
		ctx context.Context,
		w *models.AvailabilityWindow,
	) error

	UpdateWindow(
		ctx context.Context,
		w *models.AvailabilityWindow,
	) error

	DeleteWindow(
		ctx context.Context,
		id uint,
	) error

	// -------- Appointments --------
	GetAppointment(
		ctx context.Context,
		tenantID uint,
		id uint,
	) (*models.Appointment, error)

	ListAppointments(
		ctx context.Context,
		tenantID uint,
		staffID *uint,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	// ListActiveAppointments excludes appointments whose status is the
	// tenant's cancelled code.
	ListActiveAppointments(
		ctx context.Context,
		tenantID uint,
		staffID *uint,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	// CountActiveOverlapping counts non-cancelled appointments for the
	// exact staff identity overlapping [start, end), excluding
	// excludeID when non-zero. Inside a transaction the matching rows
	// are locked until commit.
	CountActiveOverlapping(
		ctx context.Context,
		tenantID uint,
		staff StaffRef,
		start time.Time,
		end time.Time,
		excludeID uint,
	) (int64, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Customer --------
	GetOrCreateCustomer(
		ctx context.Context,
		tenantID uint,
		name string,
		phone string,
		email string,
	) (*models.Customer, error)

	// WithinTx runs fn against a transaction-scoped repository and
	// commits when fn returns nil.
	WithinTx(
		ctx context.Context,
		fn func(Repository) error,
	) error
}
