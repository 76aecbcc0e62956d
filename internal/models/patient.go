package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Patient represents a record in the clinic roster
type Patient struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string          `gorm:"not null" json:"name"`
	Email        string          `gorm:"not null;uniqueIndex" json:"email"`
	Phone        string          `gorm:"not null" json:"phone"`
	DOB          *datatypes.Date `gorm:"column:dob" json:"dob"`
	MedicalNotes *string         `gorm:"type:text" json:"medicalNotes"`
	CreatedAt    time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Notes returns the medical notes or an empty string.
func (p *Patient) Notes() string {
	if p.MedicalNotes == nil {
		return ""
	}
	return *p.MedicalNotes
}

// PatientPage is one page of a filtered roster listing.
type PatientPage struct {
	Patients    []Patient `json:"patients"`
	Total       int64     `json:"total"`
	TotalPages  int64     `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
}

// Insights are the dashboard counters.
type Insights struct {
	Total         int64 `json:"total"`
	RecentlyAdded int64 `json:"recentlyAdded"`
}
