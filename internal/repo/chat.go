package repo

import (
	"context"
	"time"

	"clinicdesk-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRepo struct {
	db *gorm.DB
}

type ChatRepoInterface interface {
	CreateChat(ctx context.Context, chat *models.Chat) error
	HasChats(ctx context.Context, patientID uuid.UUID) (bool, error)
	GetTranscript(ctx context.Context, patientID uuid.UUID) ([]models.Chat, error)
}

func NewChatRepository(db *gorm.DB) ChatRepoInterface {
	return &ChatRepo{db: db}
}

func (r *ChatRepo) CreateChat(ctx context.Context, chat *models.Chat) error {
	if chat.UUID == uuid.Nil {
		chat.UUID = uuid.New()
	}
	if chat.CreatedAt.IsZero() {
		var latest []models.Chat
		err := r.db.WithContext(ctx).
			Select("created_at").
			Where("patient_id = ?", chat.PatientID).
			Order("created_at DESC").
			Limit(1).
			Find(&latest).Error
		if err != nil {
			return err
		}
		chat.CreatedAt = time.Now().UTC()
		if len(latest) > 0 {
			chat.CreatedAt = stamp(latest[0].CreatedAt, chat.CreatedAt)
		}
	}
	return r.db.WithContext(ctx).Omit("Patient").Create(chat).Error
}

// HasChats reports whether the patient has any message at all.
func (r *ChatRepo) HasChats(ctx context.Context, patientID uuid.UUID) (bool, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Chat{}).
		Where("patient_id = ?", patientID).
		Limit(1).
		Pluck("uuid", &ids).Error
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// GetTranscript returns every message of the patient, oldest first.
func (r *ChatRepo) GetTranscript(ctx context.Context, patientID uuid.UUID) ([]models.Chat, error) {
	return transcript(r.db.WithContext(ctx), patientID)
}

func transcript(db *gorm.DB, patientID uuid.UUID) ([]models.Chat, error) {
	chats := []models.Chat{}
	err := db.Where("patient_id = ?", patientID).
		Order("created_at ASC").
		Find(&chats).Error
	return chats, err
}

// deleteChatsByPatient is only called inside the patient delete transaction.
func deleteChatsByPatient(tx *gorm.DB, patientID uuid.UUID) error {
	return tx.Where("patient_id = ?", patientID).Delete(&models.Chat{}).Error
}

// stamp keeps created_at strictly increasing within one transcript so that
// ordering by created_at is total.
func stamp(last, now time.Time) time.Time {
	if !now.After(last) {
		return last.Add(time.Microsecond)
	}
	return now
}
