package db

import (
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/slotline/slotline-api/internal/config"
	"github.com/slotline/slotline-api/internal/models"
)

func NewDB(cfg *config.Config, log zerolog.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.Staff{},
		&models.Service{},
		&models.AppointmentStatus{},
		&models.Customer{},
		&models.AvailabilityWindow{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	db.Exec(`
        UPDATE tenants
        SET timezone = 'UTC'
        WHERE timezone IS NULL OR timezone = ''
    `)

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to create btree_gist extension")
	}
	if err := db.Exec(overlapConstraintDDL).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to create appointment overlap constraint")
	}

	return db
}

// overlapConstraintDDL backstops the transactional conflict check at
// the database level. The columns migrate as timestamptz, so the range
// must be tstzrange. NULL staff_id rows never collide here, matching
// the any-staff semantics; the row locks cover that case.
const overlapConstraintDDL = `
    DO $$ BEGIN
        ALTER TABLE appointments
            ADD CONSTRAINT appointments_staff_no_overlap
            EXCLUDE USING gist (
                tenant_id WITH =,
                staff_id WITH =,
                tstzrange(start_time, end_time) WITH &&
            )
            WHERE (cancelled_at IS NULL);
    EXCEPTION
        WHEN duplicate_table THEN NULL;
        WHEN duplicate_object THEN NULL;
    END $$
`
