package v1

import (
	"time"

	"clinicdesk-backend/internal/api/middleware"
	"clinicdesk-backend/internal/clinic/workflow"
	"clinicdesk-backend/internal/repo"
	"clinicdesk-backend/internal/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Deps is everything the v1 routes need. Archiver may be nil.
type Deps struct {
	DB        *gorm.DB
	JWTSecret string
	TokenTTL  time.Duration
	Assistant workflow.Assistant
	Archiver  services.Archiver
}

func RegisterRoutes(r fiber.Router, deps Deps) {
	userRepo := repo.NewUserRepository(deps.DB)
	patientRepo := repo.NewPatientRepository(deps.DB)
	chatRepo := repo.NewChatRepository(deps.DB)

	authService := services.NewAuthService(userRepo, deps.JWTSecret, deps.TokenTTL)
	patientService := services.NewPatientService(patientRepo, deps.Archiver)
	chatWorkflow := workflow.NewWorkflow(patientRepo, chatRepo, deps.Assistant)

	protected := middleware.Protected(authService)

	registerHealth(r, deps.DB)
	registerAuth(r, authService, protected)
	registerPatients(r, patientService, protected)
	registerChat(r, chatWorkflow, protected)
}
