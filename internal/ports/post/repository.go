package post

import (
	"context"
	"time"

	"xclone/internal/core/post"
	userPort "xclone/internal/ports/user"

	"github.com/gofrs/uuid"
)

// PostRepository is the storage port for posts and retweet edges.
type PostRepository interface {
	Create(ctx context.Context, p *post.Post) (*post.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*post.Post, error)
	// Delete removes the post together with its likes, comments and retweets.
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]*post.Post, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*post.Post, error)
	// ListFeed returns posts by viewerID or anyone viewerID follows.
	ListFeed(ctx context.Context, viewerID uuid.UUID) ([]*post.Post, error)
	Stats(ctx context.Context, viewerID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]*post.Stats, error)
	ToggleRetweet(ctx context.Context, userID, postID uuid.UUID) (retweeted, inserted bool, err error)
	CountRetweets(ctx context.Context, postID uuid.UUID) (int64, error)
}

type NewPost struct {
	Content  string
	Image    string
	Location string
}

type PostUpdate struct {
	Content  *string
	Image    *string
	Location *string
}

// ListFilter selects the listing mode: Feed wins over Username; neither means all posts.
type ListFilter struct {
	Feed     bool
	Username string
}

const (
	StatusRetweeted   = "retweeted"
	StatusUnretweeted = "unretweeted"
)

type PostDTO struct {
	ID            string                   `json:"id"`
	Content       string                   `json:"content"`
	Image         string                   `json:"image"`
	Location      string                   `json:"location"`
	UserID        string                   `json:"user_id"`
	User          *userPort.UserSummaryDTO `json:"user,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
	LikesCount    int64                    `json:"likes_count"`
	CommentsCount int64                    `json:"comments_count"`
	RetweetsCount int64                    `json:"retweets_count"`
	IsLiked       bool                     `json:"is_liked"`
	IsRetweeted   bool                     `json:"is_retweeted"`
}

type RetweetStatusDTO struct {
	Status        string `json:"status"`
	RetweetsCount int64  `json:"retweets_count"`
}
