package notificationapp

import (
	"context"
	"fmt"

	"xclone/internal/core/errs"
	notificationEntity "xclone/internal/core/notification"
	notificationPort "xclone/internal/ports/notification"
	userPort "xclone/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// NotificationService stores event fan-out and serves the inbox.
type NotificationService struct {
	NotificationRepository notificationPort.NotificationRepository
	logger                 *zap.Logger
}

func NewNotificationService(repo notificationPort.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		NotificationRepository: repo,
		logger:                 logger,
	}
}

// Dispatch writes every notification ev produces. It must run with the ctx of
// the triggering write's transaction so both commit or roll back together.
func (s *NotificationService) Dispatch(ctx context.Context, ev notificationEntity.Event) error {
	for _, n := range ev.Notifications() {
		if err := s.NotificationRepository.Create(ctx, n); err != nil {
			s.logger.Error("Failed to store notification",
				zap.String("kind", string(n.Kind)),
				zap.String("recipientID", n.RecipientID.String()),
				zap.Error(err))
			return fmt.Errorf("store notification: %w", err)
		}
		s.logger.Debug("Notification stored",
			zap.String("kind", string(n.Kind)),
			zap.String("recipientID", n.RecipientID.String()))
	}
	return nil
}

// List returns the most recent notifications and the total unread count.
func (s *NotificationService) List(ctx context.Context, recipientID uuid.UUID) (*notificationPort.NotificationListDTO, error) {
	ns, err := s.NotificationRepository.ListRecent(ctx, recipientID, notificationEntity.RecentLimit)
	if err != nil {
		return nil, err
	}
	unread, err := s.NotificationRepository.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	out := make([]*notificationPort.NotificationDTO, 0, len(ns))
	for _, n := range ns {
		out = append(out, toDTO(n))
	}
	return &notificationPort.NotificationListDTO{Notifications: out, UnreadCount: unread}, nil
}

// MarkRead marks one notification read, or all of them when id is nil.
func (s *NotificationService) MarkRead(ctx context.Context, recipientID uuid.UUID, id *uuid.UUID) (*notificationPort.UnreadCountDTO, error) {
	if id == nil {
		return s.MarkAllRead(ctx, recipientID)
	}

	matched, err := s.NotificationRepository.MarkRead(ctx, *id, recipientID)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, errs.NotFound("notification not found")
	}
	return s.unread(ctx, recipientID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (*notificationPort.UnreadCountDTO, error) {
	n, err := s.NotificationRepository.MarkAllRead(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Marked notifications read", zap.String("userID", recipientID.String()), zap.Int64("count", n))
	return s.unread(ctx, recipientID)
}

func (s *NotificationService) unread(ctx context.Context, recipientID uuid.UUID) (*notificationPort.UnreadCountDTO, error) {
	n, err := s.NotificationRepository.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	return &notificationPort.UnreadCountDTO{UnreadCount: n}, nil
}

func toDTO(n *notificationEntity.Notification) *notificationPort.NotificationDTO {
	dto := &notificationPort.NotificationDTO{
		ID:               n.ID.String(),
		Sender:           userPort.NewUserSummary(&n.Sender),
		NotificationType: string(n.Kind),
		TargetType:       string(n.Target().Type),
		Text:             n.Text,
		IsRead:           n.IsRead,
		CreatedAt:        n.CreatedAt,
	}
	if t := n.Target(); t.Type != notificationEntity.TargetNone {
		id := t.ID.String()
		dto.ObjectID = &id
	}
	return dto
}
