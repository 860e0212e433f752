package database

import (
	"context"

	"xclone/internal/core/notification"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepositoryDatabase struct {
	db *gorm.DB
}

func NewNotificationRepositoryDatabase(db *gorm.DB) *NotificationRepositoryDatabase {
	return &NotificationRepositoryDatabase{db: db}
}

func (repo *NotificationRepositoryDatabase) Create(ctx context.Context, n *notification.Notification) error {
	return translate(conn(ctx, repo.db).Omit(clause.Associations).Create(n).Error)
}

func (repo *NotificationRepositoryDatabase) ListRecent(ctx context.Context, recipientID uuid.UUID, limit int) ([]*notification.Notification, error) {
	var ns []*notification.Notification
	if err := conn(ctx, repo.db).Preload("Sender").
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&ns).Error; err != nil {
		return nil, err
	}
	return ns, nil
}

func (repo *NotificationRepositoryDatabase) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var n int64
	err := conn(ctx, repo.db).Model(&notification.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&n).Error
	return n, err
}

// MarkRead counts ownership separately because MySQL reports changed rows,
// not matched rows, for an UPDATE.
func (repo *NotificationRepositoryDatabase) MarkRead(ctx context.Context, id, recipientID uuid.UUID) (int64, error) {
	db := conn(ctx, repo.db)

	var matched int64
	if err := db.Model(&notification.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Count(&matched).Error; err != nil {
		return 0, err
	}
	if matched == 0 {
		return 0, nil
	}

	if err := db.Model(&notification.Notification{}).
		Where("id = ? AND recipient_id = ? AND is_read = ?", id, recipientID, false).
		Update("is_read", true).Error; err != nil {
		return 0, err
	}
	return matched, nil
}

func (repo *NotificationRepositoryDatabase) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	res := conn(ctx, repo.db).Model(&notification.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
