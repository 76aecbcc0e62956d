package handlers

import (
	"clinicdesk-backend/internal/clinic/workflow"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ChatHandler struct {
	workflow *workflow.Workflow
}

func NewChatHandler(workflow *workflow.Workflow) *ChatHandler {
	return &ChatHandler{workflow: workflow}
}

// POST /chat/add
func (h *ChatHandler) AskAI(c *fiber.Ctx) error {
	var dto struct {
		PatientID string `json:"patientId"`
		Message   string `json:"message"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}

	patientID, err := uuid.Parse(dto.PatientID)
	if err != nil {
		return badRequest(c, "Invalid patient ID")
	}

	reply, err := h.workflow.Send(c.UserContext(), patientID, dto.Message)
	if err != nil {
		return respondError(c, err, errorMessages{NotFound: "Patient not found", Internal: "Error processing request"})
	}
	return c.Status(fiber.StatusOK).JSON(reply)
}

// GET /chat/history/:patientId
func (h *ChatHandler) GetChatHistory(c *fiber.Ctx) error {
	patientID, ok := parseUUIDParam(c, "patientId")
	if !ok {
		return badRequest(c, "Invalid patient ID")
	}

	history, err := h.workflow.History(c.UserContext(), patientID)
	if err != nil {
		return respondError(c, err, errorMessages{NotFound: "Patient not found", Internal: "Failed to fetch history"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"history": history,
	})
}
