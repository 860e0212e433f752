package database

import (
	"context"

	"xclone/internal/core/like"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepositoryDatabase struct {
	db *gorm.DB
}

func NewLikeRepositoryDatabase(db *gorm.DB) *LikeRepositoryDatabase {
	return &LikeRepositoryDatabase{db: db}
}

// Toggle is resolved by the (user_id, post_id) unique index rather than a
// read-then-write check: concurrent likes converge on one row.
func (repo *LikeRepositoryDatabase) Toggle(ctx context.Context, userID, postID uuid.UUID) (bool, bool, error) {
	db := conn(ctx, repo.db)

	res := db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&like.Like{})
	if res.Error != nil {
		return false, false, translate(res.Error)
	}
	if res.RowsAffected > 0 {
		return false, false, nil
	}

	l := &like.Like{ID: uuid.Must(uuid.NewV4()), UserID: userID, PostID: postID}
	res = db.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(l)
	if res.Error != nil {
		return false, false, translate(res.Error)
	}
	return true, res.RowsAffected > 0, nil
}

func (repo *LikeRepositoryDatabase) Count(ctx context.Context, postID uuid.UUID) (int64, error) {
	var n int64
	err := conn(ctx, repo.db).Model(&like.Like{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}
