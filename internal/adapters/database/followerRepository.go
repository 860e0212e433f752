package database

import (
	"context"

	"xclone/internal/core/follower"
	"xclone/internal/core/user"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowerRepositoryDatabase implements FollowerRepository with gorm.
type FollowerRepositoryDatabase struct {
	db *gorm.DB
}

func NewFollowerRepositoryDatabase(db *gorm.DB) *FollowerRepositoryDatabase {
	return &FollowerRepositoryDatabase{db: db}
}

// Toggle deletes the edge first and only inserts when nothing was deleted. The
// insert ignores unique conflicts, so two racing follows leave exactly one row.
func (repo *FollowerRepositoryDatabase) Toggle(ctx context.Context, followerID, followeeID uuid.UUID) (bool, bool, error) {
	db := conn(ctx, repo.db)

	res := db.Where("follower_id = ? AND user_id = ?", followerID, followeeID).Delete(&follower.Follower{})
	if res.Error != nil {
		return false, false, translate(res.Error)
	}
	if res.RowsAffected > 0 {
		return false, false, nil
	}

	edge := &follower.Follower{
		ID:         uuid.Must(uuid.NewV4()),
		UserID:     followeeID,
		FollowerID: followerID,
	}
	res = db.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(edge)
	if res.Error != nil {
		return false, false, translate(res.Error)
	}
	return true, res.RowsAffected > 0, nil
}

func (repo *FollowerRepositoryDatabase) IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	var count int64
	if err := conn(ctx, repo.db).Model(&follower.Follower{}).
		Where("follower_id = ? AND user_id = ?", followerID, followeeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Followers lists the users following userID.
func (repo *FollowerRepositoryDatabase) Followers(ctx context.Context, userID uuid.UUID) ([]*user.User, error) {
	var users []*user.User
	if err := conn(ctx, repo.db).
		Joins("JOIN followers ON followers.follower_id = users.id").
		Where("followers.user_id = ?", userID).
		Order("followers.created_at DESC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Following lists the users userID follows.
func (repo *FollowerRepositoryDatabase) Following(ctx context.Context, userID uuid.UUID) ([]*user.User, error) {
	var users []*user.User
	if err := conn(ctx, repo.db).
		Joins("JOIN followers ON followers.user_id = users.id").
		Where("followers.follower_id = ?", userID).
		Order("followers.created_at DESC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
