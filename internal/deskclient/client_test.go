package deskclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"clinicdesk-backend/internal/apperr"
	"clinicdesk-backend/internal/clinic/workflow"
	"clinicdesk-backend/internal/models"
	"clinicdesk-backend/internal/services"

	"github.com/google/uuid"
)

// fakeDesk serves just enough of the API for one patient.
type fakeDesk struct {
	mu        sync.Mutex
	patientID uuid.UUID
	history   []models.Chat
	sent      []string
	authSeen  []string
}

func (f *fakeDesk) handler() http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		json.NewDecoder(r.Body).Decode(&in)
		if in["password"] != "secret123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Login successful", "token": "tok", "role": "STAFF", "fullName": "Front Desk"})
	})
	mux.HandleFunc("GET /api/v1/patients/list", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if r.URL.Query().Get("limit") == "0" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":     "Patients retrieved successfully",
			"patients":    []models.Patient{{ID: f.patientID, Name: "Jane Doe"}},
			"total":       1,
			"totalPages":  1,
			"currentPage": 1,
		})
	})
	mux.HandleFunc("POST /api/v1/patients/add", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Patient exists with same email"})
	})
	mux.HandleFunc("GET /api/v1/chat/history/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if r.PathValue("id") != f.patientID.String() {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Patient not found"})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"history": f.history})
	})
	mux.HandleFunc("POST /api/v1/chat/add", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		var in map[string]string
		json.NewDecoder(r.Body).Decode(&in)

		f.mu.Lock()
		defer f.mu.Unlock()
		f.sent = append(f.sent, in["message"])
		now := time.Now().UTC()
		f.history = append(f.history, models.Chat{UUID: uuid.New(), PatientID: f.patientID, Role: models.RoleUser, Content: in["message"], CreatedAt: now})
		reply := models.Chat{UUID: uuid.New(), PatientID: f.patientID, Role: models.RoleAssistant, Content: "Summary for Jane Doe", CreatedAt: now.Add(time.Millisecond)}
		f.history = append(f.history, reply)
		writeJSON(w, http.StatusOK, reply)
	})
	return mux
}

func (f *fakeDesk) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authSeen = append(f.authSeen, r.Header.Get("Authorization"))
}

func newSession(t *testing.T) (*Session, *fakeDesk) {
	t.Helper()
	fake := &fakeDesk{patientID: uuid.New()}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	s, err := Login(context.Background(), srv.Client(), srv.URL+"/api/v1", "desk@clinic.org", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	return s, fake
}

func TestLogin(t *testing.T) {
	s, _ := newSession(t)
	if s.Token != "tok" || s.Role != "STAFF" || s.FullName != "Front Desk" {
		t.Errorf("session = %+v", s)
	}

	_, err := Login(context.Background(), s.HTTP, s.BaseURL, "desk@clinic.org", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized || !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("bad login err = %v", err)
	}
}

func TestSessionSendsBearerToken(t *testing.T) {
	s, fake := newSession(t)
	page, err := s.ListPatients(context.Background(), ListQuery{Page: 1, Limit: 5, Search: "jane"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || len(page.Patients) != 1 || page.Patients[0].Name != "Jane Doe" {
		t.Errorf("page = %+v", page)
	}
	if len(fake.authSeen) != 1 || fake.authSeen[0] != "Bearer tok" {
		t.Errorf("auth headers = %v", fake.authSeen)
	}
}

func TestErrorsMapToKinds(t *testing.T) {
	s, _ := newSession(t)
	ctx := context.Background()

	if _, err := s.ListPatients(ctx, ListQuery{Limit: 0}); err != nil {
		t.Errorf("omitted limit should not be sent: %v", err)
	}
	_, err := s.AddPatient(ctx, services.PatientInput{Name: "Jane", Email: "jane@mail.com", Phone: "1"})
	if !errors.Is(err, apperr.ErrDuplicate) {
		t.Errorf("add err = %v, want duplicate", err)
	}
	if _, err := s.History(ctx, uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("history err = %v, want not found", err)
	}
}

func TestOpenChatSeedsEmptyTranscriptOnce(t *testing.T) {
	s, fake := newSession(t)
	ctx := context.Background()

	shown, err := s.OpenChat(ctx, fake.patientID)
	if err != nil {
		t.Fatal(err)
	}
	if len(shown) != 1 || shown[0].Role != models.RoleAssistant {
		t.Fatalf("first open = %+v", shown)
	}

	shown, err = s.OpenChat(ctx, fake.patientID)
	if err != nil {
		t.Fatal(err)
	}
	if len(shown) != 2 {
		t.Errorf("second open = %d messages, want the stored transcript", len(shown))
	}
	if len(fake.sent) != 1 || fake.sent[0] != workflow.SeedPrompt {
		t.Errorf("sent = %v, want one seed prompt", fake.sent)
	}
}
