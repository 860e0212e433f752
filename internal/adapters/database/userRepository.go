package database

import (
	"context"

	"xclone/internal/core/follower"
	"xclone/internal/core/post"
	"xclone/internal/core/user"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// UserRepositoryDatabase implements UserRepository with gorm.
type UserRepositoryDatabase struct {
	db *gorm.DB
}

func NewUserRepositoryDatabase(db *gorm.DB) *UserRepositoryDatabase {
	return &UserRepositoryDatabase{db: db}
}

func (repo *UserRepositoryDatabase) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if err := conn(ctx, repo.db).Create(u).Error; err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (repo *UserRepositoryDatabase) findOne(ctx context.Context, query string, args ...interface{}) (*user.User, error) {
	var u user.User
	if err := conn(ctx, repo.db).Where(query, args...).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return repo.findOne(ctx, "id = ?", id)
}

func (repo *UserRepositoryDatabase) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return repo.findOne(ctx, "username = ?", username)
}

func (repo *UserRepositoryDatabase) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return repo.findOne(ctx, "email = ?", email)
}

func (repo *UserRepositoryDatabase) FindBySocialID(ctx context.Context, provider, socialID string) (*user.User, error) {
	return repo.findOne(ctx, "social_provider = ? AND social_id = ?", provider, socialID)
}

func (repo *UserRepositoryDatabase) FindByUsernameOrEmail(ctx context.Context, username, email string) (*user.User, error) {
	return repo.findOne(ctx, "username = ? OR email = ?", username, email)
}

func (repo *UserRepositoryDatabase) FindByUsernames(ctx context.Context, usernames []string) ([]*user.User, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	var users []*user.User
	if err := conn(ctx, repo.db).Where("username IN ?", usernames).Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (repo *UserRepositoryDatabase) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*user.User, error) {
	if len(fields) > 0 {
		if err := conn(ctx, repo.db).Model(&user.User{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, translate(err)
		}
	}
	return repo.FindByID(ctx, id)
}

func (repo *UserRepositoryDatabase) Stats(ctx context.Context, id uuid.UUID) (*user.Stats, error) {
	db := conn(ctx, repo.db)
	var s user.Stats
	if err := db.Model(&follower.Follower{}).Where("user_id = ?", id).Count(&s.Followers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&follower.Follower{}).Where("follower_id = ?", id).Count(&s.Following).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&post.Post{}).Where("user_id = ?", id).Count(&s.Posts).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
