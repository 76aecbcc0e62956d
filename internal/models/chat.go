package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Chat is one message of a patient's transcript.
type Chat struct {
	UUID      uuid.UUID `gorm:"type:uuid;primaryKey;" json:"id"`
	PatientID uuid.UUID `gorm:"type:uuid;not null;index" json:"patientId"`
	Patient   *Patient  `gorm:"foreignKey:PatientID;constraint:OnDelete:RESTRICT;" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Role      Role      `gorm:"not null" json:"role"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}
