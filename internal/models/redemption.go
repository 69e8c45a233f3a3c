package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Redemption is a CiviCoins spend on a catalogue reward. Cost and title are
// copied at redemption time so catalogue edits don't rewrite history.
type Redemption struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	RewardID    string    `gorm:"size:50;not null" json:"rewardId"`
	RewardTitle string    `gorm:"size:200" json:"rewardTitle"`
	Cost        int       `gorm:"not null" json:"cost"`
	VoucherCode string    `gorm:"size:32;not null;uniqueIndex" json:"voucherCode"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (r *Redemption) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
