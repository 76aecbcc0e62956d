package handlers

import (
	"fmt"

	"clinicdesk-backend/internal/services"

	"github.com/gofiber/fiber/v2"
)

type PatientHandler struct {
	patients *services.PatientService
}

func NewPatientHandler(patients *services.PatientService) *PatientHandler {
	return &PatientHandler{patients: patients}
}

var patientErrors = errorMessages{
	NotFound:  "Patient not found",
	Duplicate: "Patient exists with same email",
}

// GET /patients/list?page&limit&search
func (h *PatientHandler) ListPatients(c *fiber.Ctx) error {
	page, ok := positiveQuery(c, "page", 1)
	if !ok {
		return badRequest(c, "page must be a positive integer")
	}
	limit, ok := positiveQuery(c, "limit", services.DefaultPageLimit)
	if !ok {
		return badRequest(c, "limit must be a positive integer")
	}

	result, err := h.patients.List(c.UserContext(), page, limit, c.Query("search"))
	if err != nil {
		return respondError(c, err, errorMessages{Internal: "Failed to fetch patients"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":     "Patients retrieved successfully",
		"patients":    result.Patients,
		"total":       result.Total,
		"totalPages":  result.TotalPages,
		"currentPage": result.CurrentPage,
	})
}

// GET /patients/insights
func (h *PatientHandler) GetInsights(c *fiber.Ctx) error {
	insights, err := h.patients.Insights(c.UserContext())
	if err != nil {
		return respondError(c, err, errorMessages{Internal: "Failed to fetch insights"})
	}
	return c.Status(fiber.StatusOK).JSON(insights)
}

// GET /patients/:id
func (h *PatientHandler) GetPatient(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid patient ID")
	}
	patient, err := h.patients.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, patientErrors)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"patient": patient,
	})
}

// POST /patients/add
func (h *PatientHandler) AddPatient(c *fiber.Ctx) error {
	var dto services.PatientInput
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}

	patient, err := h.patients.Create(c.UserContext(), dto)
	if err != nil {
		return respondError(c, err, patientErrors)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": fmt.Sprintf("Successfully added patient: %s", patient.Name),
		"patient": patient,
	})
}

// PUT /patients/update/:id
func (h *PatientHandler) UpdatePatient(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid patient ID")
	}

	var dto services.PatientUpdate
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updated, err := h.patients.Update(c.UserContext(), id, dto)
	if err != nil {
		return respondError(c, err, patientErrors)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": fmt.Sprintf("Successfully updated records for: %s", updated.Name),
		"patient": updated,
	})
}

// DELETE /patients/delete/:id
func (h *PatientHandler) DeletePatient(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid patient ID")
	}

	if err := h.patients.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err, errorMessages{NotFound: "Patient not found", Internal: "Failed to delete patient"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "PATIENT AND HISTORY DELETED SUCCESSFULLY",
	})
}
