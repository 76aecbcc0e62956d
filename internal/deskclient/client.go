// Package deskclient is the typed client used by front-desk applications.
// Every call takes an explicit Session; nothing is kept in package state.
package deskclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"clinicdesk-backend/internal/apperr"
	"clinicdesk-backend/internal/clinic/workflow"
	"clinicdesk-backend/internal/models"
	"clinicdesk-backend/internal/services"

	"github.com/google/uuid"
)

const defaultTimeout = 60 * time.Second

// Session is an authenticated connection to the API. BaseURL includes the
// version prefix, e.g. http://localhost:3000/api/v1.
type Session struct {
	BaseURL  string
	Token    string
	Role     string
	FullName string
	HTTP     *http.Client
}

// APIError is a non-2xx response. It unwraps to the matching apperr
// sentinel so callers can use errors.Is.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return apperr.ErrValidation
	case http.StatusUnauthorized:
		return apperr.ErrUnauthorized
	case http.StatusNotFound:
		return apperr.ErrNotFound
	case http.StatusConflict:
		return apperr.ErrDuplicate
	}
	return nil
}

// Register creates a staff account. It does not log in.
func Register(ctx context.Context, httpClient *http.Client, baseURL, fullName, email, password string) (*models.User, error) {
	s := &Session{BaseURL: baseURL, HTTP: httpClient}
	var out struct {
		User models.User `json:"user"`
	}
	body := map[string]string{"fullName": fullName, "email": email, "password": password}
	if err := s.do(ctx, http.MethodPost, "/auth/register", body, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Login authenticates and returns a Session carrying the bearer token.
func Login(ctx context.Context, httpClient *http.Client, baseURL, email, password string) (*Session, error) {
	s := &Session{BaseURL: baseURL, HTTP: httpClient}
	var out struct {
		Token    string `json:"token"`
		Role     string `json:"role"`
		FullName string `json:"fullName"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := s.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	s.Token = out.Token
	s.Role = out.Role
	s.FullName = out.FullName
	return s, nil
}

type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

func (s *Session) ListPatients(ctx context.Context, q ListQuery) (*models.PatientPage, error) {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	path := "/patients/list"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var page models.PatientPage
	if err := s.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *Session) Insights(ctx context.Context) (*models.Insights, error) {
	var out models.Insights
	if err := s.do(ctx, http.MethodGet, "/patients/insights", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) AddPatient(ctx context.Context, in services.PatientInput) (*models.Patient, error) {
	var out struct {
		Patient models.Patient `json:"patient"`
	}
	if err := s.do(ctx, http.MethodPost, "/patients/add", in, &out); err != nil {
		return nil, err
	}
	return &out.Patient, nil
}

func (s *Session) UpdatePatient(ctx context.Context, id uuid.UUID, in services.PatientUpdate) (*models.Patient, error) {
	var out struct {
		Patient models.Patient `json:"patient"`
	}
	if err := s.do(ctx, http.MethodPut, "/patients/update/"+id.String(), in, &out); err != nil {
		return nil, err
	}
	return &out.Patient, nil
}

func (s *Session) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.do(ctx, http.MethodDelete, "/patients/delete/"+id.String(), nil, nil)
}

func (s *Session) History(ctx context.Context, patientID uuid.UUID) ([]models.Chat, error) {
	var out struct {
		History []models.Chat `json:"history"`
	}
	if err := s.do(ctx, http.MethodGet, "/chat/history/"+patientID.String(), nil, &out); err != nil {
		return nil, err
	}
	if out.History == nil {
		out.History = []models.Chat{}
	}
	return out.History, nil
}

// Send posts one message and returns the assistant's reply.
func (s *Session) Send(ctx context.Context, patientID uuid.UUID, message string) (*models.Chat, error) {
	var reply models.Chat
	body := map[string]string{"patientId": patientID.String(), "message": message}
	if err := s.do(ctx, http.MethodPost, "/chat/add", body, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// OpenChat loads the transcript to display for a patient. An empty
// transcript is started with the seed prompt, and only the assistant's
// summary is returned for display.
func (s *Session) OpenChat(ctx context.Context, patientID uuid.UUID) ([]models.Chat, error) {
	history, err := s.History(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if len(history) > 0 {
		return history, nil
	}

	reply, err := s.Send(ctx, patientID, workflow.SeedPrompt)
	if err != nil {
		return nil, fmt.Errorf("seed chat: %w", err)
	}
	return []models.Chat{*reply}, nil
}

func (s *Session) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(s.BaseURL, "/")+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := s.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (s *Session) httpClient() *http.Client {
	if s.HTTP != nil {
		return s.HTTP
	}
	return &http.Client{Timeout: defaultTimeout}
}
