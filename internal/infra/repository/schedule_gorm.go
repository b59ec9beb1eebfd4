package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/slotline/slotline-api/internal/domain/schedule"
	"github.com/slotline/slotline-api/internal/httperr"
	"github.com/slotline/slotline-api/internal/models"
)

// SQLSTATE raised by the appointments exclusion constraint.
const pgExclusionViolation = "23P01"

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Lookups
// --------------------------------------------------

func (r *ScheduleGormRepository) GetTenantByID(
	ctx context.Context,
	id uint,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *ScheduleGormRepository) GetStaff(
	ctx context.Context,
	tenantID uint,
	staffID uint,
) (*models.Staff, error) {

	var staff models.Staff
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", staffID, tenantID).
		First(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *ScheduleGormRepository) GetService(
	ctx context.Context,
	tenantID uint,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", serviceID, tenantID).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *ScheduleGormRepository) StatusIDByCode(
	ctx context.Context,
	tenantID uint,
	code string,
) (uint, error) {

	var status models.AppointmentStatus
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&status).Error; err != nil {
		return 0, err
	}
	return status.ID, nil
}

// --------------------------------------------------
// Availability windows
// --------------------------------------------------

func (r *ScheduleGormRepository) GetWindow(
	ctx context.Context,
	id uint,
) (*models.AvailabilityWindow, error) {

	var window models.AvailabilityWindow
	if err := r.db.WithContext(ctx).
		Preload("Staff").
		First(&window, id).Error; err != nil {
		return nil, err
	}
	return &window, nil
}

func (r *ScheduleGormRepository) ListWindows(
	ctx context.Context,
	tenantID uint,
	staffID *uint,
	from time.Time,
	to time.Time,
) ([]models.AvailabilityWindow, error) {

	q := r.db.WithContext(ctx).
		Preload("Staff").
		Where(
			"tenant_id = ? AND start_time < ? AND end_time > ?",
			tenantID, to, from,
		)

	if staffID != nil {
		q = q.Where("staff_id = ?", *staffID)
	}

	var windows []models.AvailabilityWindow
	if err := q.Order("start_time ASC").Find(&windows).Error; err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *ScheduleGormRepository) CreateWindow(
	ctx context.Context,
	w *models.AvailabilityWindow,
) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *ScheduleGormRepository) UpdateWindow(
	ctx context.Context,
	w *models.AvailabilityWindow,
) error {
	return r.db.WithContext(ctx).Save(w).Error
}

func (r *ScheduleGormRepository) DeleteWindow(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).
		Delete(&models.AvailabilityWindow{}, id).Error
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (r *ScheduleGormRepository) GetAppointment(
	ctx context.Context,
	tenantID uint,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *ScheduleGormRepository) ListAppointments(
	ctx context.Context,
	tenantID uint,
	staffID *uint,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		Preload("Status").
		Where(
			"tenant_id = ? AND start_time < ? AND end_time > ?",
			tenantID, to, from,
		)

	if staffID != nil {
		q = q.Where("staff_id = ?", *staffID)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *ScheduleGormRepository) ListActiveAppointments(
	ctx context.Context,
	tenantID uint,
	staffID *uint,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Select("id", "tenant_id", "staff_id", "start_time", "end_time").
		Where(
			"tenant_id = ? AND start_time < ? AND end_time > ?",
			tenantID, to, from,
		).
		Where(
			"status_id NOT IN (?)",
			r.cancelledStatusQuery(tenantID),
		)

	if staffID != nil {
		q = q.Where("staff_id = ?", *staffID)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *ScheduleGormRepository) CountActiveOverlapping(
	ctx context.Context,
	tenantID uint,
	staff domain.StaffRef,
	start time.Time,
	end time.Time,
	excludeID uint,
) (int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"tenant_id = ? AND start_time < ? AND end_time > ?",
			tenantID, end, start,
		).
		Where(
			"status_id NOT IN (?)",
			r.cancelledStatusQuery(tenantID),
		)

	if id, ok := staff.ID(); ok {
		q = q.Where("staff_id = ?", id)
	} else {
		q = q.Where("staff_id IS NULL")
	}

	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ScheduleGormRepository) cancelledStatusQuery(tenantID uint) *gorm.DB {
	return r.db.
		Model(&models.AppointmentStatus{}).
		Select("id").
		Where("tenant_id = ? AND code = ?", tenantID, domain.StatusCodeCancelled)
}

func (r *ScheduleGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return mapExclusionViolation(
		r.db.WithContext(ctx).Create(ap).Error,
	)
}

func (r *ScheduleGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return mapExclusionViolation(
		r.db.WithContext(ctx).Save(ap).Error,
	)
}

// mapExclusionViolation turns the database-level overlap backstop into
// the same conflict the transactional check raises.
func mapExclusionViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation {
		return httperr.ErrBusiness("time_conflict")
	}
	return err
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *ScheduleGormRepository) GetOrCreateCustomer(
	ctx context.Context,
	tenantID uint,
	name string,
	phone string,
	email string,
) (*models.Customer, error) {

	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND phone = ?", tenantID, phone).
		First(&customer).Error

	if err == nil {
		return &customer, nil
	}

	customer = models.Customer{
		TenantID: tenantID,
		Name:     name,
		Phone:    phone,
		Email:    email,
	}

	if err := r.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}

	return &customer, nil
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

func (r *ScheduleGormRepository) WithinTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ScheduleGormRepository{db: tx})
	})
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
