package workflow

import (
	"context"
	"fmt"
	"strings"

	"clinicdesk-backend/internal/apperr"
	"clinicdesk-backend/internal/clinic/prompts"
	"clinicdesk-backend/internal/models"
	"clinicdesk-backend/internal/repo"

	"github.com/google/uuid"
)

// SeedPrompt is re-exported for handlers and clients.
const SeedPrompt = prompts.SeedPrompt

// Assistant produces the assistant text for one exchange.
type Assistant interface {
	Reply(ctx context.Context, prompt string, patient *models.Patient, isFirstMessage bool) string
}

// Workflow keeps a patient's transcript and runs each exchange through the
// assistant.
type Workflow struct {
	patients  repo.PatientRepoInterface
	chats     repo.ChatRepoInterface
	assistant Assistant
}

func NewWorkflow(patients repo.PatientRepoInterface, chats repo.ChatRepoInterface, assistant Assistant) *Workflow {
	return &Workflow{
		patients:  patients,
		chats:     chats,
		assistant: assistant,
	}
}

// History returns the patient's transcript, oldest first.
func (w *Workflow) History(ctx context.Context, patientID uuid.UUID) ([]models.Chat, error) {
	if _, err := w.patients.GetPatientByID(ctx, patientID); err != nil {
		return nil, err
	}
	history, err := w.chats.GetTranscript(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	return history, nil
}

// Send stores the user message, asks the assistant and stores its answer.
// Whether this is the first exchange is decided before anything is written.
func (w *Workflow) Send(ctx context.Context, patientID uuid.UUID, message string) (*models.Chat, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("message cannot be empty: %w", apperr.ErrValidation)
	}

	patient, err := w.patients.GetPatientByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	hasHistory, err := w.chats.HasChats(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("check transcript: %w", err)
	}
	isFirstMessage := !hasHistory

	if err := w.chats.CreateChat(ctx, &models.Chat{
		PatientID: patientID,
		Role:      models.RoleUser,
		Content:   message,
	}); err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}

	reply := w.assistant.Reply(ctx, message, patient, isFirstMessage)

	assistantMessage := &models.Chat{
		PatientID: patientID,
		Role:      models.RoleAssistant,
		Content:   reply,
	}
	if err := w.chats.CreateChat(ctx, assistantMessage); err != nil {
		return nil, fmt.Errorf("save assistant message: %w", err)
	}
	return assistantMessage, nil
}
