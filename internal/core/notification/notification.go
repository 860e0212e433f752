package notification

import (
	"time"

	"xclone/internal/core/user"

	"github.com/gofrs/uuid"
)

// Kind is the notification type stored in notification_type.
type Kind string

const (
	KindLike    Kind = "like"
	KindComment Kind = "comment"
	KindFollow  Kind = "follow"
	KindMessage Kind = "message"
	KindMention Kind = "mention"
)

// TargetType tags what TargetID refers to.
type TargetType string

const (
	TargetNone    TargetType = "none"
	TargetPost    TargetType = "post"
	TargetMessage TargetType = "message"
)

// Target is the typed reference to the entity that triggered a notification.
type Target struct {
	Type TargetType
	ID   uuid.UUID
}

func NoTarget() Target { return Target{Type: TargetNone} }
func PostTarget(id uuid.UUID) Target { return Target{Type: TargetPost, ID: id} }
func MessageTarget(id uuid.UUID) Target { return Target{Type: TargetMessage, ID: id} }

const (
	// RecentLimit bounds the list endpoint.
	RecentLimit = 50
	// SnippetLength is how much of a comment is quoted in its notification.
	SnippetLength = 50
	maxTextLength = 255
)

type Notification struct {
	ID          uuid.UUID     `gorm:"primaryKey;type:char(36)"`
	RecipientID uuid.UUID     `gorm:"type:char(36);not null;index:idx_notification_recipient_created,priority:1;index:idx_notification_recipient_read,priority:1"`
	SenderID    uuid.UUID     `gorm:"type:char(36);not null"`
	Sender      user.User     `gorm:"foreignKey:SenderID"`
	Kind        Kind          `gorm:"column:notification_type;type:varchar(20);not null"`
	TargetType  TargetType    `gorm:"type:varchar(20);not null"`
	TargetID    uuid.NullUUID `gorm:"type:char(36)"`
	Text        string        `gorm:"type:varchar(255);not null"`
	IsRead      bool          `gorm:"not null;default:false;index:idx_notification_recipient_read,priority:2"`
	CreatedAt   time.Time     `gorm:"autoCreateTime;index:idx_notification_recipient_created,priority:2"`
}

func (n *Notification) Target() Target {
	if n.TargetType == "" || n.TargetType == TargetNone || !n.TargetID.Valid {
		return NoTarget()
	}
	return Target{Type: n.TargetType, ID: n.TargetID.UUID}
}

func (n *Notification) SetTarget(t Target) {
	n.TargetType = t.Type
	if t.Type == TargetNone || t.Type == "" {
		n.TargetType = TargetNone
		n.TargetID = uuid.NullUUID{}
		return
	}
	n.TargetID = uuid.NullUUID{UUID: t.ID, Valid: true}
}

func newNotification(kind Kind, recipientID, senderID uuid.UUID, target Target, text string) *Notification {
	n := &Notification{
		ID:          uuid.Must(uuid.NewV4()),
		RecipientID: recipientID,
		SenderID:    senderID,
		Kind:        kind,
		Text:        truncate(text, maxTextLength),
	}
	n.SetTarget(target)
	return n
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
