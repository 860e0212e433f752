package commentapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	commentEntity "xclone/internal/core/comment"
	"xclone/internal/core/errs"
	notificationEntity "xclone/internal/core/notification"
	commentPort "xclone/internal/ports/comment"
	notificationPort "xclone/internal/ports/notification"
	postPort "xclone/internal/ports/post"
	txPort "xclone/internal/ports/tx"
	userPort "xclone/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type CommentService struct {
	CommentRepository commentPort.CommentRepository
	PostRepository    postPort.PostRepository
	UserRepository    userPort.UserRepository
	Transactor        txPort.Transactor
	Notifier          notificationPort.Dispatcher
	logger            *zap.Logger
}

func NewCommentService(
	repo commentPort.CommentRepository,
	postRepo postPort.PostRepository,
	userRepo userPort.UserRepository,
	transactor txPort.Transactor,
	notifier notificationPort.Dispatcher,
	logger *zap.Logger,
) *CommentService {
	return &CommentService{
		CommentRepository: repo,
		PostRepository:    postRepo,
		UserRepository:    userRepo,
		Transactor:        transactor,
		Notifier:          notifier,
		logger:            logger,
	}
}

// CreateComment adds a comment by userID to postID and notifies the post's author.
func (s *CommentService) CreateComment(ctx context.Context, userID, postID uuid.UUID, content string) (*commentPort.CommentDTO, error) {
	content, err := checkContent(content)
	if err != nil {
		return nil, err
	}

	p, err := s.PostRepository.FindByID(ctx, postID)
	if errors.Is(err, errs.ErrRecordNotFound) {
		return nil, errs.NotFound("post not found")
	}
	if err != nil {
		return nil, err
	}

	c := &commentEntity.Comment{
		ID:      uuid.Must(uuid.NewV4()),
		UserID:  userID,
		PostID:  postID,
		Content: content,
	}
	err = s.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.CommentRepository.Create(ctx, c); err != nil {
			return err
		}
		commenter, err := s.UserRepository.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		return s.Notifier.Dispatch(ctx, notificationEntity.CommentCreated{Commenter: commenter, Comment: c, Post: p})
	})
	if err != nil {
		s.logger.Error("Failed to create comment", zap.String("postID", postID.String()), zap.Error(err))
		return nil, fmt.Errorf("create comment: %w", err)
	}

	return s.GetComment(ctx, c.ID)
}

// ListComments returns the comments of postID, newest first.
func (s *CommentService) ListComments(ctx context.Context, postID uuid.UUID) ([]*commentPort.CommentDTO, error) {
	if _, err := s.PostRepository.FindByID(ctx, postID); err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return nil, errs.NotFound("post not found")
		}
		return nil, err
	}

	cs, err := s.CommentRepository.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	out := make([]*commentPort.CommentDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, toDTO(c))
	}
	return out, nil
}

func (s *CommentService) GetComment(ctx context.Context, id uuid.UUID) (*commentPort.CommentDTO, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(c), nil
}

// UpdateComment replaces the content. Only the comment's author may edit.
func (s *CommentService) UpdateComment(ctx context.Context, userID, id uuid.UUID, content string) (*commentPort.CommentDTO, error) {
	content, err := checkContent(content)
	if err != nil {
		return nil, err
	}
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, errs.Forbidden("you can only edit your own comments")
	}

	c, err = s.CommentRepository.UpdateContent(ctx, id, content)
	if err != nil {
		return nil, err
	}
	return toDTO(c), nil
}

func (s *CommentService) DeleteComment(ctx context.Context, userID, id uuid.UUID) error {
	c, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return errs.Forbidden("you can only delete your own comments")
	}
	return s.CommentRepository.Delete(ctx, id)
}

func (s *CommentService) find(ctx context.Context, id uuid.UUID) (*commentEntity.Comment, error) {
	c, err := s.CommentRepository.FindByID(ctx, id)
	if errors.Is(err, errs.ErrRecordNotFound) {
		return nil, errs.NotFound("comment not found")
	}
	return c, err
}

func toDTO(c *commentEntity.Comment) *commentPort.CommentDTO {
	return &commentPort.CommentDTO{
		ID:        c.ID.String(),
		PostID:    c.PostID.String(),
		User:      userPort.NewUserSummary(&c.User),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func checkContent(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	switch n := utf8.RuneCountInString(content); {
	case n == 0:
		return "", errs.FieldError("content", "this field may not be blank")
	case n > commentEntity.MaxContentLength:
		return "", errs.FieldError("content", fmt.Sprintf("must be at most %d characters", commentEntity.MaxContentLength))
	}
	return content, nil
}
