package follower

import (
	"context"

	"xclone/internal/core/user"

	"github.com/gofrs/uuid"
)

// FollowerRepository is the storage port for follow edges.
type FollowerRepository interface {
	// Toggle removes the edge if present, otherwise inserts it. following is the
	// resulting state; inserted is true only when this call created the edge.
	Toggle(ctx context.Context, followerID, followeeID uuid.UUID) (following, inserted bool, err error)
	IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	Followers(ctx context.Context, userID uuid.UUID) ([]*user.User, error)
	Following(ctx context.Context, userID uuid.UUID) ([]*user.User, error)
}

const (
	StatusFollowed   = "followed"
	StatusUnfollowed = "unfollowed"
)

type FollowStatusDTO struct {
	Status string `json:"status"`
}
