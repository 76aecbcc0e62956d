package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clinicdesk-backend/internal/apperr"
	"clinicdesk-backend/internal/models"
	"clinicdesk-backend/internal/repo"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100

	recentWindow = 24 * time.Hour
)

// Archiver stores a copy of a transcript before the patient is deleted.
type Archiver interface {
	ArchiveTranscript(ctx context.Context, patient *models.Patient, history []models.Chat) error
}

type PatientService struct {
	patients repo.PatientRepoInterface
	archiver Archiver
	now      func() time.Time
}

// NewPatientService wires the service. archiver may be nil.
func NewPatientService(patients repo.PatientRepoInterface, archiver Archiver) *PatientService {
	return &PatientService{
		patients: patients,
		archiver: archiver,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock used for the insights window.
func (s *PatientService) WithClock(now func() time.Time) *PatientService {
	s.now = now
	return s
}

// PatientInput is the payload for creating a patient.
type PatientInput struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	DOB          *string `json:"dob"`
	MedicalNotes *string `json:"medicalNotes"`
}

// PatientUpdate carries only the fields to change; nil means unchanged.
type PatientUpdate struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	DOB          *string `json:"dob"`
	MedicalNotes *string `json:"medicalNotes"`
}

func (s *PatientService) List(ctx context.Context, page, limit int, search string) (*models.PatientPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("page must be a positive integer: %w", apperr.ErrValidation)
	}
	if limit < 1 {
		return nil, fmt.Errorf("limit must be a positive integer: %w", apperr.ErrValidation)
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	patients, total, err := s.patients.ListPatients(ctx, page, limit, search)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}

	return &models.PatientPage{
		Patients:    patients,
		Total:       total,
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
	}, nil
}

// Insights counts all patients and those created in the 24 hours before now.
func (s *PatientService) Insights(ctx context.Context) (*models.Insights, error) {
	since := s.now().Add(-recentWindow)

	total, err := s.patients.CountPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("count patients: %w", err)
	}
	recent, err := s.patients.CountPatientsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("count recent patients: %w", err)
	}
	return &models.Insights{Total: total, RecentlyAdded: recent}, nil
}

func (s *PatientService) Get(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	return s.patients.GetPatientByID(ctx, id)
}

func (s *PatientService) Create(ctx context.Context, in PatientInput) (*models.Patient, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	phone := strings.TrimSpace(in.Phone)
	if name == "" || email == "" || phone == "" {
		return nil, fmt.Errorf("name, email and phone are required: %w", apperr.ErrValidation)
	}

	patient := &models.Patient{Name: name, Email: email, Phone: phone}
	if in.DOB != nil {
		dob, err := parseDOB(*in.DOB)
		if err != nil {
			return nil, err
		}
		patient.DOB = dob
	}
	patient.MedicalNotes = optionalText(in.MedicalNotes)

	if err := s.patients.CreatePatient(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *PatientService) Update(ctx context.Context, id uuid.UUID, in PatientUpdate) (*models.Patient, error) {
	updates := map[string]interface{}{}

	required := []struct {
		column string
		value  *string
		clean  func(string) string
	}{
		{"name", in.Name, strings.TrimSpace},
		{"email", in.Email, normalizeEmail},
		{"phone", in.Phone, strings.TrimSpace},
	}
	for _, f := range required {
		if f.value == nil {
			continue
		}
		v := f.clean(*f.value)
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty: %w", f.column, apperr.ErrValidation)
		}
		updates[f.column] = v
	}

	if in.DOB != nil {
		dob, err := parseDOB(*in.DOB)
		if err != nil {
			return nil, err
		}
		if dob == nil {
			updates["dob"] = nil
		} else {
			updates["dob"] = *dob
		}
	}
	if in.MedicalNotes != nil {
		if notes := optionalText(in.MedicalNotes); notes == nil {
			updates["medical_notes"] = nil
		} else {
			updates["medical_notes"] = *notes
		}
	}

	return s.patients.UpdatePatient(ctx, id, updates)
}

// Delete removes the transcript and the patient in one transaction. When an
// archiver is configured the transcript is archived inside that transaction
// first, and an archive failure leaves everything in place.
func (s *PatientService) Delete(ctx context.Context, id uuid.UUID) error {
	var archive repo.ArchiveFunc
	if s.archiver != nil {
		archive = func(patient *models.Patient, history []models.Chat) error {
			if err := s.archiver.ArchiveTranscript(ctx, patient, history); err != nil {
				return fmt.Errorf("archive transcript: %w", err)
			}
			return nil
		}
	}
	return s.patients.DeletePatientWithChats(ctx, id, archive)
}

func totalPages(total int64, limit int) int64 {
	l := int64(limit)
	return (total + l - 1) / l
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

var dobLayouts = []string{"2006-01-02", time.RFC3339}

// parseDOB accepts a calendar date or an RFC 3339 timestamp. Blank clears it.
func parseDOB(raw string) (*datatypes.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d := datatypes.Date(t.UTC())
			return &d, nil
		}
	}
	return nil, fmt.Errorf("dob %q must be YYYY-MM-DD: %w", raw, apperr.ErrValidation)
}
