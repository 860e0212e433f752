package notification

import (
	"context"
	"time"

	"xclone/internal/core/notification"
	userPort "xclone/internal/ports/user"

	"github.com/gofrs/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *notification.Notification) error
	ListRecent(ctx context.Context, recipientID uuid.UUID, limit int) ([]*notification.Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	// MarkRead flags one notification read if recipientID owns it; it returns the rows matched.
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

// Dispatcher records the notifications an event produces. Callers invoke it
// inside the transaction of the write that raised the event.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev notification.Event) error
}

type NotificationDTO struct {
	ID               string                   `json:"id"`
	Sender           *userPort.UserSummaryDTO `json:"sender,omitempty"`
	NotificationType string                   `json:"notification_type"`
	TargetType       string                   `json:"target_type"`
	ObjectID         *string                  `json:"object_id"`
	Text             string                   `json:"text"`
	IsRead           bool                     `json:"is_read"`
	CreatedAt        time.Time                `json:"created_at"`
}

type NotificationListDTO struct {
	Notifications []*NotificationDTO `json:"notifications"`
	UnreadCount   int64              `json:"unread_count"`
}

type UnreadCountDTO struct {
	UnreadCount int64 `json:"unread_count"`
}
