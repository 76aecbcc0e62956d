package v1

import (
	"clinicdesk-backend/internal/clinic/workflow"
	"clinicdesk-backend/internal/handlers"

	"github.com/gofiber/fiber/v2"
)

func registerChat(r fiber.Router, chatWorkflow *workflow.Workflow, protected fiber.Handler) {
	chatHandler := handlers.NewChatHandler(chatWorkflow)

	group := r.Group("/chat", protected)
	group.Post("/add", chatHandler.AskAI)
	group.Get("/history/:patientId", chatHandler.GetChatHistory)
}
