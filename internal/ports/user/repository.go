package user

import (
	"context"
	"time"

	"xclone/internal/core/user"

	"github.com/gofrs/uuid"
)

// UserRepository is the storage port for accounts.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) (*user.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	FindByUsernames(ctx context.Context, usernames []string) ([]*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindBySocialID(ctx context.Context, provider, socialID string) (*user.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*user.User, error)
	// Update applies only the given columns and returns the fresh row.
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*user.User, error)
	Stats(ctx context.Context, id uuid.UUID) (*user.Stats, error)
}

// Principal is the authenticated caller behind a bearer token.
type Principal struct {
	UserID  uuid.UUID
	TokenID string
}

// ProfileUpdate carries a partial profile change; nil fields are left alone.
type ProfileUpdate struct {
	Username       *string
	Email          *string
	Bio            *string
	ProfilePicture *string
	BannerImage    *string
}

type AuthResponse struct {
	User      *UserDTO `json:"user"`
	Token     string   `json:"token"`
	ExpiresAt int64    `json:"expires_at"`
}

type UserDTO struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profile_picture"`
	BannerImage    string    `json:"banner_image"`
	DateJoined     time.Time `json:"date_joined"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	PostsCount     int64     `json:"posts_count"`
	IsFollowing    *bool     `json:"is_following,omitempty"`
}

// UserSummaryDTO is the compact author block embedded in posts, comments and messages.
type UserSummaryDTO struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profile_picture"`
}

func NewUserSummary(u *user.User) *UserSummaryDTO {
	if u == nil || u.ID == uuid.Nil {
		return nil
	}
	return &UserSummaryDTO{
		ID:             u.ID.String(),
		Username:       u.Username,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
	}
}

func NewUserSummaries(users []*user.User) []*UserSummaryDTO {
	out := make([]*UserSummaryDTO, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserSummary(u))
	}
	return out
}
