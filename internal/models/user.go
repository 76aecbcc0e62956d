package models

import (
	"time"

	"github.com/google/uuid"
)

const RoleStaff = "STAFF"

// User is a front-desk staff account
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName     string    `gorm:"not null" json:"fullName"`
	Email        string    `gorm:"not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password;not null" json:"-"`
	Role         string    `gorm:"not null;default:STAFF" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"-"`
}
