package database

import (
	"context"
	"errors"
	"fmt"

	"xclone/internal/core/chat"
	"xclone/internal/core/comment"
	"xclone/internal/core/errs"
	"xclone/internal/core/follower"
	"xclone/internal/core/like"
	"xclone/internal/core/notification"
	"xclone/internal/core/post"
	"xclone/internal/core/user"

	"gorm.io/gorm"
)

type txKey struct{}

// Transactor implements ports/tx on top of gorm transactions.
type Transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTransaction runs fn in a transaction; nested calls become savepoints.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return conn(ctx, t.db).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction bound to ctx, or db when there is none.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// translate maps gorm errors onto the storage sentinels in errs.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", errs.ErrDuplicate, err)
	}
	return err
}

// Migrate creates or updates every table the app uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&follower.Follower{},
		&post.Post{},
		&post.Retweet{},
		&like.Like{},
		&comment.Comment{},
		&chat.Conversation{},
		&chat.Participant{},
		&chat.Message{},
		&notification.Notification{},
	)
}
