package comment

import (
	"context"
	"time"

	"xclone/internal/core/comment"
	userPort "xclone/internal/ports/user"

	"github.com/gofrs/uuid"
)

type CommentRepository interface {
	Create(ctx context.Context, c *comment.Comment) (*comment.Comment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*comment.Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]*comment.Comment, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) (*comment.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CommentDTO struct {
	ID        string                   `json:"id"`
	PostID    string                   `json:"post"`
	User      *userPort.UserSummaryDTO `json:"user,omitempty"`
	Content   string                   `json:"content"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}
