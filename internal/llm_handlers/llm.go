package llmHandlers

import (
	"context"

	"clinicdesk-backend/internal/models"
)

// Message is one turn sent to a provider.
type Message struct {
	Role    models.Role
	Content string
}

type Client interface {
	Chat(ctx context.Context, systemMessage string, messages []Message) (string, error)
}
