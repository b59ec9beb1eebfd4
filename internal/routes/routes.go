package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/slotline/slotline-api/internal/audit"
	"github.com/slotline/slotline-api/internal/cache"
	"github.com/slotline/slotline-api/internal/config"
	"github.com/slotline/slotline-api/internal/handlers"
	infraRepo "github.com/slotline/slotline-api/internal/infra/repository"
	"github.com/slotline/slotline-api/internal/middleware"
	ucSchedule "github.com/slotline/slotline-api/internal/usecase/schedule"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) {

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	var slotCache ucSchedule.SlotCache
	if rdb != nil {
		slotCache = cache.NewSlotCache(rdb, cfg.SlotCacheTTL, log)
	}

	// ======================================================
	// USE CASES
	// ======================================================
	saveWindowUC := ucSchedule.NewSaveWindow(scheduleRepo, auditDispatcher, slotCache)
	deleteWindowUC := ucSchedule.NewDeleteWindow(scheduleRepo, auditDispatcher, slotCache)
	generateSlotsUC := ucSchedule.NewGenerateSlots(scheduleRepo, slotCache)

	createAppointmentUC := ucSchedule.NewCreateAppointment(scheduleRepo, auditDispatcher, slotCache)
	rescheduleAppointmentUC := ucSchedule.NewRescheduleAppointment(scheduleRepo, auditDispatcher, slotCache)
	cancelAppointmentUC := ucSchedule.NewCancelAppointment(scheduleRepo, auditDispatcher, slotCache)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	availabilityHandler := handlers.NewAvailabilityHandler(
		scheduleRepo,
		saveWindowUC,
		deleteWindowUC,
		generateSlotsUC,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		scheduleRepo,
		createAppointmentUC,
		rescheduleAppointmentUC,
		cancelAppointmentUC,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PUBLIC READS + BOOKING
		// ------------------------------
		api.GET("/availability", availabilityHandler.List)
		api.GET("/availability/slots", availabilityHandler.Slots)
		api.GET("/availability/week", availabilityHandler.Week)
		api.GET("/availability/:id", availabilityHandler.Get)

		api.POST("/appointments", appointmentHandler.Create)

		// ------------------------------
		// PRIVATE (tenant-scoped writes)
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.POST("/availability", availabilityHandler.Create)
			secured.PUT("/availability/:id", availabilityHandler.Update)
			secured.DELETE("/availability/:id", availabilityHandler.Delete)

			secured.GET("/appointments", appointmentHandler.List)
			secured.PUT("/appointments/:id", appointmentHandler.Reschedule)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
