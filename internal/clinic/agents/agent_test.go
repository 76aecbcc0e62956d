package agents

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"clinicdesk-backend/internal/clinic/prompts"
	llmHandlers "clinicdesk-backend/internal/llm_handlers"
	"clinicdesk-backend/internal/models"

	"github.com/google/uuid"
)

type fakeLLM struct {
	reply    string
	err      error
	block    bool
	system   string
	messages []llmHandlers.Message
}

func (f *fakeLLM) Chat(ctx context.Context, systemMessage string, messages []llmHandlers.Message) (string, error) {
	f.system = systemMessage
	f.messages = messages
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func patient(notes string) *models.Patient {
	p := &models.Patient{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com", Phone: "555"}
	if notes != "" {
		p.MedicalNotes = &notes
	}
	return p
}

func TestOfflineReply(t *testing.T) {
	a := NewAgent(nil, 0)
	if !a.Offline() {
		t.Fatal("nil client should be offline")
	}
	ctx := context.Background()

	first := a.Reply(ctx, prompts.SeedPrompt, patient("Allergic to penicillin"), true)
	if !strings.HasPrefix(first, "Hello!") || !strings.Contains(first, "Jane Doe") || !strings.Contains(first, "Allergic to penicillin") {
		t.Errorf("first offline reply = %q", first)
	}

	quoted := a.Reply(ctx, prompts.SeedPrompt, patient("Says \"no latex\"\nasthma"), true)
	if !strings.Contains(quoted, "regarding: \"Says \"no latex\"\nasthma\".") {
		t.Errorf("notes should appear verbatim, got %q", quoted)
	}

	noNotes := a.Reply(ctx, prompts.SeedPrompt, patient(""), true)
	if !strings.Contains(noNotes, "No specific history") {
		t.Errorf("reply without notes = %q", noNotes)
	}

	next := a.Reply(ctx, "what about x-rays?", patient("Allergic to penicillin"), false)
	if strings.Contains(next, "Hello") || !strings.Contains(next, "offline mode") {
		t.Errorf("follow-up offline reply = %q", next)
	}
	if a.Reply(ctx, "again", patient(""), false) != next {
		t.Error("offline follow-up should be deterministic")
	}
}

func TestReplyUsesDirective(t *testing.T) {
	llm := &fakeLLM{reply: "  Hi, Jane's file shows no allergies.  "}
	a := NewAgent(llm, time.Second)

	got := a.Reply(context.Background(), "summarize", patient("Allergic to latex"), true)
	if got != "Hi, Jane's file shows no allergies." {
		t.Errorf("reply not trimmed: %q", got)
	}
	if len(llm.messages) != 1 || llm.messages[0].Role != models.RoleUser {
		t.Fatalf("messages = %+v", llm.messages)
	}
	content := llm.messages[0].Content
	if !strings.Contains(content, prompts.FirstMessageDirective) || strings.Contains(content, prompts.FollowUpDirective) {
		t.Error("first message should carry the greeting directive only")
	}
	if !strings.Contains(content, "Allergic to latex") || !strings.HasSuffix(content, "USER MESSAGE: summarize") {
		t.Errorf("content missing patient data or prompt: %q", content)
	}

	a.Reply(context.Background(), "next?", patient(""), false)
	content = llm.messages[0].Content
	if !strings.Contains(content, prompts.FollowUpDirective) || strings.Contains(content, prompts.FirstMessageDirective) {
		t.Error("follow-up should carry the no-greeting directive only")
	}
	if !strings.Contains(content, "No specific history") {
		t.Error("empty notes should render as no specific history")
	}
}

func TestReplyFallbacks(t *testing.T) {
	cases := map[string]*fakeLLM{
		"error":   {err: errors.New("503 from upstream")},
		"empty":   {reply: "   "},
		"timeout": {block: true},
	}
	for name, llm := range cases {
		t.Run(name, func(t *testing.T) {
			a := NewAgent(llm, 20*time.Millisecond)
			got := a.Reply(context.Background(), "hi", patient(""), false)
			if got != FailureReply(patient("")) {
				t.Errorf("got %q", got)
			}
			if !strings.Contains(got, "Jane Doe") {
				t.Errorf("fallback must name the patient: %q", got)
			}
		})
	}
}
