package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReportStatusPending   = "pending"
	ReportStatusValidated = "validated"
)

// Report is an urban problem submitted by a citizen. Status is free-form.
type Report struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Severity    int       `gorm:"not null;default:5" json:"severity"`
	Department  string    `gorm:"size:100" json:"department"`
	ImageURL    string    `gorm:"type:text" json:"imageUrl"`
	Address     string    `gorm:"type:text" json:"address"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Status      string    `gorm:"size:50;not null;default:'pending'" json:"status"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"authorId"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Author *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Votes  []Vote `gorm:"foreignKey:ReportID" json:"votes"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
