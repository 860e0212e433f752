package chatapp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	chatEntity "xclone/internal/core/chat"
	"xclone/internal/core/errs"
	notificationEntity "xclone/internal/core/notification"
	chatPort "xclone/internal/ports/chat"
	notificationPort "xclone/internal/ports/notification"
	txPort "xclone/internal/ports/tx"
	userPort "xclone/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// ChatService handles direct messages between pairs of users.
type ChatService struct {
	ChatRepository chatPort.ChatRepository
	UserRepository userPort.UserRepository
	Transactor     txPort.Transactor
	Notifier       notificationPort.Dispatcher
	logger         *zap.Logger
}

func NewChatService(
	repo chatPort.ChatRepository,
	userRepo userPort.UserRepository,
	transactor txPort.Transactor,
	notifier notificationPort.Dispatcher,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		ChatRepository: repo,
		UserRepository: userRepo,
		Transactor:     transactor,
		Notifier:       notifier,
		logger:         logger,
	}
}

// ListConversations returns the caller's conversations, most recently active first.
func (s *ChatService) ListConversations(ctx context.Context, userID uuid.UUID) ([]*chatPort.ConversationDTO, error) {
	convs, err := s.ChatRepository.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(convs))
	for _, c := range convs {
		ids = append(ids, c.ID)
	}
	summaries, err := s.ChatRepository.Summaries(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*chatPort.ConversationDTO, 0, len(convs))
	for _, c := range convs {
		dto := &chatPort.ConversationDTO{
			ID:           c.ID.String(),
			Participants: make([]*userPort.UserSummaryDTO, 0, len(c.Participants)),
			CreatedAt:    c.CreatedAt,
			UpdatedAt:    c.UpdatedAt,
		}
		for i := range c.Participants {
			dto.Participants = append(dto.Participants, userPort.NewUserSummary(&c.Participants[i].User))
		}
		if other, ok := c.Other(userID); ok {
			dto.OtherUser = userPort.NewUserSummary(&other)
		}
		if sum := summaries[c.ID]; sum != nil {
			dto.LastMessage = chatPort.NewMessageDTO(sum.LastMessage)
			dto.UnreadCount = sum.Unread
		}
		out = append(out, dto)
	}
	return out, nil
}

// SendMessage appends a message to the conversation with recipientID, creating it on first contact.
func (s *ChatService) SendMessage(ctx context.Context, senderID, recipientID uuid.UUID, content string) (*chatPort.SendMessageDTO, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errs.FieldError("content", "this field may not be blank")
	}
	if senderID == recipientID {
		return nil, errs.Validation("you cannot message yourself")
	}
	if _, err := s.UserRepository.FindByID(ctx, recipientID); err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return nil, errs.NotFound("recipient not found")
		}
		return nil, err
	}

	m := &chatEntity.Message{
		ID:       uuid.Must(uuid.NewV4()),
		SenderID: senderID,
		Content:  content,
	}
	err := s.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		conv, created, err := s.ChatRepository.GetOrCreateConversation(ctx, senderID, recipientID)
		if err != nil {
			return err
		}
		if created {
			s.logger.Info("Conversation created", zap.String("conversationID", conv.ID.String()))
		}

		m.ConversationID = conv.ID
		if _, err := s.ChatRepository.CreateMessage(ctx, m); err != nil {
			return err
		}

		sender, err := s.UserRepository.FindByID(ctx, senderID)
		if err != nil {
			return err
		}
		return s.Notifier.Dispatch(ctx, notificationEntity.MessageCreated{Sender: sender, RecipientID: recipientID, Message: m})
	})
	if err != nil {
		s.logger.Error("Failed to send message", zap.String("senderID", senderID.String()), zap.Error(err))
		return nil, fmt.Errorf("send message: %w", err)
	}

	stored, err := s.ChatRepository.FindMessage(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	return &chatPort.SendMessageDTO{
		ConversationID: m.ConversationID.String(),
		Message:        chatPort.NewMessageDTO(stored),
	}, nil
}

// ListMessages returns the conversation oldest first after marking the caller's incoming messages read.
func (s *ChatService) ListMessages(ctx context.Context, userID, conversationID uuid.UUID) ([]*chatPort.MessageDTO, error) {
	if _, err := s.participantOf(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	if _, err := s.ChatRepository.MarkRead(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	msgs, err := s.ChatRepository.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	out := make([]*chatPort.MessageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, chatPort.NewMessageDTO(m))
	}
	return out, nil
}

func (s *ChatService) MarkConversationRead(ctx context.Context, userID, conversationID uuid.UUID) (*chatPort.MarkReadDTO, error) {
	if _, err := s.participantOf(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	n, err := s.ChatRepository.MarkRead(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	return &chatPort.MarkReadDTO{Marked: n}, nil
}

// DeleteMessage scrubs a message the caller sent. Other users' messages look absent.
func (s *ChatService) DeleteMessage(ctx context.Context, userID, messageID uuid.UUID) (*chatPort.MessageDTO, error) {
	m, err := s.ChatRepository.FindMessage(ctx, messageID)
	if errors.Is(err, errs.ErrRecordNotFound) || (err == nil && m.SenderID != userID) {
		return nil, errs.NotFound("message not found")
	}
	if err != nil {
		return nil, err
	}

	m, err = s.ChatRepository.SoftDeleteMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	return chatPort.NewMessageDTO(m), nil
}

// DeleteConversation scrubs every message in it. The conversation row stays so the pair keeps one thread.
func (s *ChatService) DeleteConversation(ctx context.Context, userID, conversationID uuid.UUID) error {
	if _, err := s.participantOf(ctx, userID, conversationID); err != nil {
		return err
	}
	n, err := s.ChatRepository.SoftDeleteConversation(ctx, conversationID)
	if err != nil {
		return err
	}
	s.logger.Info("Conversation cleared", zap.String("conversationID", conversationID.String()), zap.Int64("messages", n))
	return nil
}

func (s *ChatService) participantOf(ctx context.Context, userID, conversationID uuid.UUID) (*chatEntity.Conversation, error) {
	c, err := s.ChatRepository.FindConversation(ctx, conversationID)
	if errors.Is(err, errs.ErrRecordNotFound) || (err == nil && !c.HasParticipant(userID)) {
		return nil, errs.NotFound("conversation not found")
	}
	return c, err
}
