package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/termin-notifier/internal/audit"
	"github.com/BruksfildServices01/termin-notifier/internal/config"
	domain "github.com/BruksfildServices01/termin-notifier/internal/domain/availability"
	"github.com/BruksfildServices01/termin-notifier/internal/handlers"
	infraRepo "github.com/BruksfildServices01/termin-notifier/internal/infra/repository"
	"github.com/BruksfildServices01/termin-notifier/internal/middleware"
	ucAvailability "github.com/BruksfildServices01/termin-notifier/internal/usecase/availability"
	"github.com/BruksfildServices01/termin-notifier/internal/validators"
)

type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Log    *zap.Logger
	Remote domain.AvailabilityClient
	Audit  audit.Auditor
	Cycles handlers.CycleRunner
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA
	// ======================================================
	slotRepo := infraRepo.NewSlotGormRepository(d.DB)
	doctorRepo := infraRepo.NewDoctorGormRepository(d.DB)
	subscriptionRepo := infraRepo.NewSubscriptionGormRepository(d.DB)

	// ======================================================
	// USE CASES
	// ======================================================
	registerDoctorUC := ucAvailability.NewRegisterDoctor(d.Remote, doctorRepo, d.Audit, d.Log)
	listSlotsUC := ucAvailability.NewListDoctorSlots(slotRepo)
	manageSlotUC := ucAvailability.NewManageSlot(slotRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	doctorHandler := handlers.NewDoctorHandler(doctorRepo, registerDoctorUC)
	timeslotHandler := handlers.NewTimeslotHandler(listSlotsUC, manageSlotUC)
	var checkDomain handlers.DomainChecker
	if d.Config.CheckEmailDomain {
		checkDomain = validators.IsEmailDomainValid
	}
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionRepo, checkDomain)
	cycleHandler := handlers.NewCycleHandler(d.Cycles)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// API
	// ======================================================
	api := r.Group("/api")
	{
		api.GET("/doctors", doctorHandler.List)
		api.GET("/doctors/:id", doctorHandler.Get)
		api.POST("/doctors", doctorHandler.Create)

		api.GET("/timeslots/doctor/:id", timeslotHandler.ListByDoctor)

		api.POST("/users", subscriptionHandler.CreateUser)
		api.GET("/users/:id", subscriptionHandler.GetUser)

		api.POST("/subscriptions", subscriptionHandler.Create)
		api.DELETE("/subscriptions/:id", subscriptionHandler.Delete)
		api.GET("/subscriptions/user/:id", subscriptionHandler.ListByUser)

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(d.Config), middleware.RequireRole(middleware.RoleAdmin))
		{
			admin.POST("/cycles", cycleHandler.Run)
			admin.GET("/audit-logs", auditLogsHandler.List)

			admin.POST("/timeslots/add/:doctor_id/:free_slot", timeslotHandler.Add)
			admin.DELETE("/timeslots/:id", timeslotHandler.Delete)
		}
	}
}
