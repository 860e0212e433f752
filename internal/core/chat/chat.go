package chat

import (
	"time"

	"xclone/internal/core/user"

	"github.com/gofrs/uuid"
)

// Conversation is the single thread shared by an unordered pair of users.
type Conversation struct {
	ID           uuid.UUID     `gorm:"primaryKey;type:char(36)"`
	PairKey      string        `gorm:"type:varchar(80);uniqueIndex;not null"`
	Participants []Participant `gorm:"foreignKey:ConversationID"`
	CreatedAt    time.Time     `gorm:"autoCreateTime"`
	UpdatedAt    time.Time     `gorm:"autoUpdateTime;index"`
}

type Participant struct {
	ConversationID uuid.UUID `gorm:"primaryKey;type:char(36)"`
	UserID         uuid.UUID `gorm:"primaryKey;type:char(36);index"`
	User           user.User `gorm:"foreignKey:UserID"`
}

// Message rows are never physically removed; deletion scrubs Content and sets IsDeleted.
type Message struct {
	ID             uuid.UUID `gorm:"primaryKey;type:char(36)"`
	ConversationID uuid.UUID `gorm:"type:char(36);not null;index"`
	SenderID       uuid.UUID `gorm:"type:char(36);not null"`
	Sender         user.User `gorm:"foreignKey:SenderID"`
	Content        string    `gorm:"type:text;not null"`
	IsRead         bool      `gorm:"not null;default:false"`
	IsDeleted      bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// PairKey identifies the conversation between a and b regardless of order.
func PairKey(a, b uuid.UUID) string {
	x, y := a.String(), b.String()
	if y < x {
		x, y = y, x
	}
	return x + ":" + y
}

// Other returns the participant that is not userID.
func (c *Conversation) Other(userID uuid.UUID) (user.User, bool) {
	for _, p := range c.Participants {
		if p.UserID != userID {
			return p.User, true
		}
	}
	return user.User{}, false
}

// HasParticipant reports whether userID takes part in the conversation.
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// Summary is the per-viewer digest shown in the conversation list.
type Summary struct {
	LastMessage *Message
	Unread      int64
}
