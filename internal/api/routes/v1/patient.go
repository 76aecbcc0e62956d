package v1

import (
	"clinicdesk-backend/internal/handlers"
	"clinicdesk-backend/internal/services"

	"github.com/gofiber/fiber/v2"
)

func registerPatients(r fiber.Router, patients *services.PatientService, protected fiber.Handler) {
	patientHandler := handlers.NewPatientHandler(patients)

	group := r.Group("/patients", protected)
	group.Get("/list", patientHandler.ListPatients)
	group.Get("/insights", patientHandler.GetInsights)
	group.Post("/add", patientHandler.AddPatient)
	group.Put("/update/:id", patientHandler.UpdatePatient)
	group.Delete("/delete/:id", patientHandler.DeletePatient)
	// keep last so it does not shadow the fixed paths above
	group.Get("/:id", patientHandler.GetPatient)
}
