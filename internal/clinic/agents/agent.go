package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clinicdesk-backend/internal/clinic/prompts"
	llmHandlers "clinicdesk-backend/internal/llm_handlers"
	"clinicdesk-backend/internal/models"

	"github.com/rs/zerolog/log"
)

const DefaultTimeout = 30 * time.Second

const noHistory = "No specific history"

// Agent produces the assistant side of a patient chat. A nil llm client
// means offline mode.
type Agent struct {
	llmClient llmHandlers.Client
	timeout   time.Duration
}

func NewAgent(llmClient llmHandlers.Client, timeout time.Duration) *Agent {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Agent{
		llmClient: llmClient,
		timeout:   timeout,
	}
}

// Offline reports whether no provider is configured.
func (a *Agent) Offline() bool {
	return a.llmClient == nil
}

// Reply always returns non-empty text; provider failures become a fallback
// message.
func (a *Agent) Reply(ctx context.Context, prompt string, patient *models.Patient, isFirstMessage bool) string {
	if a.Offline() {
		return OfflineReply(patient, isFirstMessage)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	messages := []llmHandlers.Message{{
		Role:    models.RoleUser,
		Content: BuildInstruction(patient, isFirstMessage) + "\n\n" + prompts.UserMessagePrefix + prompt,
	}}

	response, err := a.llmClient.Chat(ctx, "", messages)
	if err == nil {
		response = strings.TrimSpace(response)
		if response != "" {
			return response
		}
		err = fmt.Errorf("empty response")
	}

	log.Error().Err(err).Str("patient_id", patient.ID.String()).Bool("first_message", isFirstMessage).Msg("assistant generation failed")
	return FailureReply(patient)
}

// BuildInstruction renders the clinical system instruction for the patient.
func BuildInstruction(patient *models.Patient, isFirstMessage bool) string {
	directive := prompts.FollowUpDirective
	if isFirstMessage {
		directive = prompts.FirstMessageDirective
	}
	history := patient.Notes()
	if strings.TrimSpace(history) == "" {
		history = noHistory
	}
	return fmt.Sprintf(prompts.ClinicalPrompt, patient.Name, patient.Name, history, directive)
}

func OfflineReply(patient *models.Patient, isFirstMessage bool) string {
	if isFirstMessage {
		notes := patient.Notes()
		if strings.TrimSpace(notes) == "" {
			notes = noHistory
		}
		return fmt.Sprintf("Hello! I've successfully loaded the records for %s. I noticed a medical note regarding: \"%s\". "+
			"While my advanced clinical analysis is currently offline, I am ready to assist with manual charting or administrative tasks. "+
			"How can I help you today?", patient.Name, notes)
	}
	return "I'm currently operating in offline mode. I can see the patient's file, but my clinical reasoning engine is temporarily unavailable. " +
		"Please consult the physical chart for specific treatment advice."
}

func FailureReply(patient *models.Patient) string {
	return fmt.Sprintf("I'm having trouble reaching my clinical database right now, but I have %s's file open. "+
		"Please let me know if you need help with basic data entry in the meantime.", patient.Name)
}
