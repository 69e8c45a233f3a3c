package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a citizen account. The gamification counters are denormalized and
// only ever moved with SQL increments.
type User struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name                string    `gorm:"size:120;not null" json:"name"`
	Email               string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password            string    `gorm:"not null" json:"-"`
	Avatar              string    `gorm:"type:text" json:"avatar"`
	Role                string    `gorm:"size:20;default:'user'" json:"role"`
	XP                  int       `gorm:"not null;default:0;index" json:"xp"`
	Level               int       `gorm:"not null;default:1" json:"level"`
	CiviCoins           int       `gorm:"not null;default:0" json:"civiCoins"`
	ReportsSubmitted    int       `gorm:"not null;default:0" json:"reportsSubmitted"`
	VotesCast           int       `gorm:"not null;default:0" json:"votesCast"`
	Address             *string   `gorm:"type:text" json:"address"`
	Education           *string   `gorm:"size:100" json:"education"`
	Profession          *string   `gorm:"size:100" json:"profession"`
	Age                 *int      `json:"age"`
	Whatsapp            *string   `gorm:"size:30" json:"whatsapp"`
	ReceiveUpdates      bool      `gorm:"default:false" json:"receiveUpdates"`
	NotificationChannel *string   `gorm:"size:30" json:"notificationChannel"`
	Interests           []string  `gorm:"type:jsonb;serializer:json" json:"interests"`
	SubscribedThemes    []string  `gorm:"type:jsonb;serializer:json" json:"subscribedThemes"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`

	Achievements     []UserAchievement `gorm:"foreignKey:UserID" json:"achievements,omitempty"`
	Reports          []Report          `gorm:"foreignKey:AuthorID" json:"reports,omitempty"`
	Votes            []Vote            `gorm:"foreignKey:UserID" json:"votes,omitempty"`
	PropositionVotes []PropositionVote `gorm:"foreignKey:UserID" json:"propositionVotes,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
