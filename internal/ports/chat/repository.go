package chat

import (
	"context"
	"time"

	"xclone/internal/core/chat"
	userPort "xclone/internal/ports/user"

	"github.com/gofrs/uuid"
)

// ChatRepository is the storage port for conversations and messages.
type ChatRepository interface {
	// GetOrCreateConversation returns the one conversation between a and b,
	// creating it on first use. created reports whether this call inserted it.
	GetOrCreateConversation(ctx context.Context, a, b uuid.UUID) (conv *chat.Conversation, created bool, err error)
	FindConversation(ctx context.Context, id uuid.UUID) (*chat.Conversation, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]*chat.Conversation, error)
	Summaries(ctx context.Context, viewerID uuid.UUID, conversationIDs []uuid.UUID) (map[uuid.UUID]*chat.Summary, error)
	// CreateMessage appends m and bumps the conversation's updated_at.
	CreateMessage(ctx context.Context, m *chat.Message) (*chat.Message, error)
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*chat.Message, error)
	// MarkRead flags every message in the conversation not sent by readerID as read.
	MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error)
	FindMessage(ctx context.Context, id uuid.UUID) (*chat.Message, error)
	SoftDeleteMessage(ctx context.Context, id uuid.UUID) (*chat.Message, error)
	SoftDeleteConversation(ctx context.Context, conversationID uuid.UUID) (int64, error)
}

type ConversationDTO struct {
	ID           string                     `json:"id"`
	Participants []*userPort.UserSummaryDTO `json:"participants"`
	OtherUser    *userPort.UserSummaryDTO   `json:"other_user,omitempty"`
	LastMessage  *MessageDTO                `json:"last_message"`
	UnreadCount  int64                      `json:"unread_count"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

type MessageDTO struct {
	ID             string                   `json:"id"`
	ConversationID string                   `json:"conversation_id"`
	Sender         *userPort.UserSummaryDTO `json:"sender,omitempty"`
	SenderID       string                   `json:"sender_id"`
	Content        string                   `json:"content"`
	IsRead         bool                     `json:"is_read"`
	IsDeleted      bool                     `json:"is_deleted"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

type SendMessageDTO struct {
	ConversationID string      `json:"conversation_id"`
	Message        *MessageDTO `json:"message"`
}

func NewMessageDTO(m *chat.Message) *MessageDTO {
	if m == nil {
		return nil
	}
	return &MessageDTO{
		ID:             m.ID.String(),
		ConversationID: m.ConversationID.String(),
		Sender:         userPort.NewUserSummary(&m.Sender),
		SenderID:       m.SenderID.String(),
		Content:        m.Content,
		IsRead:         m.IsRead,
		IsDeleted:      m.IsDeleted,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

type MarkReadDTO struct {
	Marked int64 `json:"marked"`
}
