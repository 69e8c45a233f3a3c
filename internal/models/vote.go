package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	VoteValid = "valid"
	VoteFake  = "fake"

	PropositionApprove = "APPROVE"
	PropositionReject  = "REJECT"
)

// Vote is a crowd validation of a report. One per user per report.
type Vote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Type      string    `gorm:"size:10;not null" json:"type"`
	Comment   *string   `gorm:"type:text" json:"comment"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_votes_user_report,priority:1" json:"userId"`
	ReportID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_votes_user_report,priority:2;index" json:"reportId"`
	CreatedAt time.Time `json:"createdAt"`

	Report *Report `gorm:"foreignKey:ReportID" json:"report,omitempty"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// PropositionVote records a citizen's position on a Câmara proposition.
// PropositionID is the upstream numeric id kept as text.
type PropositionVote struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_prop_votes_user_prop,priority:1" json:"userId"`
	PropositionID string    `gorm:"size:32;not null;uniqueIndex:idx_prop_votes_user_prop,priority:2;index" json:"propositionId"`
	VoteType      string    `gorm:"size:10;not null" json:"voteType"`
	Comment       *string   `gorm:"type:text" json:"comment"`
	CreatedAt     time.Time `gorm:"index" json:"createdAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (v *PropositionVote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
