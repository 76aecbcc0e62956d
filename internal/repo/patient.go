package repo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"clinicdesk-backend/internal/apperr"
	"clinicdesk-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PatientRepo represents the repository for the patient model
type PatientRepo struct {
	db *gorm.DB
}

type PatientRepoInterface interface {
	CreatePatient(ctx context.Context, patient *models.Patient) error
	GetPatientByID(ctx context.Context, id uuid.UUID) (*models.Patient, error)
	ListPatients(ctx context.Context, page int, limit int, search string) ([]models.Patient, int64, error)
	CountPatients(ctx context.Context) (int64, error)
	CountPatientsSince(ctx context.Context, since time.Time) (int64, error)
	UpdatePatient(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Patient, error)
	DeletePatientWithChats(ctx context.Context, id uuid.UUID, archive ArchiveFunc) error
}

// ArchiveFunc receives the patient and the full transcript inside the delete
// transaction. A non-nil error aborts the delete.
type ArchiveFunc func(patient *models.Patient, history []models.Chat) error

func NewPatientRepository(db *gorm.DB) PatientRepoInterface {
	return &PatientRepo{db: db}
}

// CreatePatient inserts the patient. An email already on file is ErrDuplicate.
func (r *PatientRepo) CreatePatient(ctx context.Context, patient *models.Patient) error {
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := emailTaken(tx, patient.Email, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("patient email %s: %w", patient.Email, apperr.ErrDuplicate)
		}
		return translate(tx.Create(patient).Error)
	})
}

func (r *PatientRepo) GetPatientByID(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	return findPatient(r.db.WithContext(ctx), id)
}

// ListPatients returns one page of patients, newest first, and the number of
// patients matching search.
func (r *PatientRepo) ListPatients(ctx context.Context, page int, limit int, search string) ([]models.Patient, int64, error) {
	if page < 1 || limit < 1 {
		return nil, 0, fmt.Errorf("page %d limit %d: %w", page, limit, apperr.ErrValidation)
	}
	patients := []models.Patient{}
	var total int64

	filtered := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Patient{})
		if term := strings.TrimSpace(search); term != "" {
			insensitive := "%" + escapeLike(strings.ToLower(term)) + "%"
			sensitive := "%" + escapeLike(term) + "%"
			q = q.Where(
				`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR phone LIKE ? ESCAPE '\'`,
				insensitive, insensitive, sensitive,
			)
		}
		return q
	}

	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// past the last page, or so far past it that the offset would overflow
	if page-1 > math.MaxInt/limit || int64((page-1)*limit) >= total {
		return patients, total, nil
	}

	offset := (page - 1) * limit
	if err := filtered().
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&patients).Error; err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

func (r *PatientRepo) CountPatients(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Patient{}).Count(&n).Error
	return n, err
}

func (r *PatientRepo) CountPatientsSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Patient{}).Where("created_at >= ?", since).Count(&n).Error
	return n, err
}

// UpdatePatient applies updates (column name -> value) and returns the stored row.
func (r *PatientRepo) UpdatePatient(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Patient, error) {
	var updated *models.Patient
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findPatient(tx, id)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			updated = existing
			return nil
		}
		if email, ok := updates["email"].(string); ok {
			taken, err := emailTaken(tx, email, id)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("patient email %s: %w", email, apperr.ErrDuplicate)
			}
		}
		if err := translate(tx.Model(existing).Updates(updates).Error); err != nil {
			return err
		}
		updated, err = findPatient(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePatientWithChats removes the transcript and then the patient as one
// unit. The patient row is locked first so no message can be added between
// archive and delete. archive may be nil.
func (r *PatientRepo) DeletePatientWithChats(ctx context.Context, id uuid.UUID, archive ArchiveFunc) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		patient, err := findPatient(tx.Clauses(clause.Locking{Strength: "UPDATE"}), id)
		if err != nil {
			return err
		}
		if archive != nil {
			history, err := transcript(tx, id)
			if err != nil {
				return fmt.Errorf("load transcript: %w", err)
			}
			if err := archive(patient, history); err != nil {
				return err
			}
		}
		if err := deleteChatsByPatient(tx, id); err != nil {
			return fmt.Errorf("delete chats: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Patient{})
		if res.Error != nil {
			return fmt.Errorf("delete patient: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("patient %s: %w", id, apperr.ErrNotFound)
		}
		return nil
	})
}

func findPatient(db *gorm.DB, id uuid.UUID) (*models.Patient, error) {
	var patient models.Patient
	err := db.Where("id = ?", id).First(&patient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("patient %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func emailTaken(db *gorm.DB, email string, except uuid.UUID) (bool, error) {
	var n int64
	q := db.Model(&models.Patient{}).Where("email = ?", email)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// translate maps a unique constraint violation that slipped past the
// pre-check (concurrent insert) to ErrDuplicate.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%v: %w", err, apperr.ErrDuplicate)
	}
	return err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
