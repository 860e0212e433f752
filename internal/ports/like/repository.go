package like

import (
	"context"

	"github.com/gofrs/uuid"
)

type LikeRepository interface {
	// Toggle deletes the (user, post) like if it exists, otherwise inserts it.
	Toggle(ctx context.Context, userID, postID uuid.UUID) (liked, inserted bool, err error)
	Count(ctx context.Context, postID uuid.UUID) (int64, error)
}

const (
	StatusLiked   = "liked"
	StatusUnliked = "unliked"
)

type LikeStatusDTO struct {
	Status string `json:"status"`
}
