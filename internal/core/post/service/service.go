package postapp

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"xclone/internal/core/errs"
	notificationEntity "xclone/internal/core/notification"
	postEntity "xclone/internal/core/post"
	likePort "xclone/internal/ports/like"
	notificationPort "xclone/internal/ports/notification"
	postPort "xclone/internal/ports/post"
	txPort "xclone/internal/ports/tx"
	userPort "xclone/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// mentionPattern matches the username charset; a trailing "." is sentence punctuation.
var mentionPattern = regexp.MustCompile(`@([\w.+-]+)`)

type PostService struct {
	PostRepository postPort.PostRepository
	LikeRepository likePort.LikeRepository
	UserRepository userPort.UserRepository
	Transactor     txPort.Transactor
	Notifier       notificationPort.Dispatcher
	logger         *zap.Logger
}

func NewPostService(
	postRepo postPort.PostRepository,
	likeRepo likePort.LikeRepository,
	userRepo userPort.UserRepository,
	transactor txPort.Transactor,
	notifier notificationPort.Dispatcher,
	logger *zap.Logger,
) *PostService {
	return &PostService{
		PostRepository: postRepo,
		LikeRepository: likeRepo,
		UserRepository: userRepo,
		Transactor:     transactor,
		Notifier:       notifier,
		logger:         logger,
	}
}

// CreatePost stores a post by userID and notifies the users it mentions.
func (s *PostService) CreatePost(ctx context.Context, userID uuid.UUID, in postPort.NewPost) (*postPort.PostDTO, error) {
	content, err := checkContent(in.Content)
	if err != nil {
		return nil, err
	}

	p := &postEntity.Post{
		ID:       uuid.Must(uuid.NewV4()),
		UserID:   userID,
		Content:  content,
		Image:    strings.TrimSpace(in.Image),
		Location: strings.TrimSpace(in.Location),
	}

	err = s.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.PostRepository.Create(ctx, p); err != nil {
			return err
		}
		return s.notifyMentions(ctx, p)
	})
	if err != nil {
		s.logger.Error("Failed to create post", zap.String("userID", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.logger.Info("Post created", zap.String("postID", p.ID.String()), zap.String("userID", userID.String()))
	return s.GetPost(ctx, userID, p.ID)
}

func (s *PostService) notifyMentions(ctx context.Context, p *postEntity.Post) error {
	names := mentions(p.Content)
	if len(names) == 0 {
		return nil
	}
	mentioned, err := s.UserRepository.FindByUsernames(ctx, names)
	if err != nil || len(mentioned) == 0 {
		return err
	}
	author, err := s.UserRepository.FindByID(ctx, p.UserID)
	if err != nil {
		return err
	}
	return s.Notifier.Dispatch(ctx, notificationEntity.MentionedInPost{Author: author, Post: p, Mentioned: mentioned})
}

// mentions returns the distinct @usernames in content, in order of appearance.
func mentions(content string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range mentionPattern.FindAllStringSubmatch(content, -1) {
		name := strings.TrimRight(m[1], ".")
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// ListPosts lists posts newest first: the viewer's feed, one user's posts, or everything.
func (s *PostService) ListPosts(ctx context.Context, viewerID uuid.UUID, filter postPort.ListFilter) ([]*postPort.PostDTO, error) {
	var (
		posts []*postEntity.Post
		err   error
	)
	switch {
	case filter.Feed:
		posts, err = s.PostRepository.ListFeed(ctx, viewerID)
	case filter.Username != "":
		u, ferr := s.UserRepository.FindByUsername(ctx, filter.Username)
		if errors.Is(ferr, errs.ErrRecordNotFound) {
			return []*postPort.PostDTO{}, nil
		}
		if ferr != nil {
			return nil, ferr
		}
		posts, err = s.PostRepository.ListByUser(ctx, u.ID)
	default:
		posts, err = s.PostRepository.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	return s.toDTOs(ctx, viewerID, posts)
}

func (s *PostService) GetPost(ctx context.Context, viewerID, postID uuid.UUID) (*postPort.PostDTO, error) {
	p, err := s.find(ctx, postID)
	if err != nil {
		return nil, err
	}
	dtos, err := s.toDTOs(ctx, viewerID, []*postEntity.Post{p})
	if err != nil {
		return nil, err
	}
	return dtos[0], nil
}

// UpdatePost changes the supplied fields. Only the author may edit.
func (s *PostService) UpdatePost(ctx context.Context, userID, postID uuid.UUID, in postPort.PostUpdate) (*postPort.PostDTO, error) {
	p, err := s.find(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, errs.Forbidden("you can only edit your own posts")
	}

	fields := map[string]interface{}{}
	if in.Content != nil {
		content, err := checkContent(*in.Content)
		if err != nil {
			return nil, err
		}
		fields["content"] = content
	}
	if in.Image != nil {
		fields["image"] = strings.TrimSpace(*in.Image)
	}
	if in.Location != nil {
		fields["location"] = strings.TrimSpace(*in.Location)
	}

	if _, err := s.PostRepository.Update(ctx, postID, fields); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, userID, postID)
}

// DeletePost removes the post with its likes, comments and retweets. Only the author may delete.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uuid.UUID) error {
	p, err := s.find(ctx, postID)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return errs.Forbidden("you can only delete your own posts")
	}
	if err := s.PostRepository.Delete(ctx, postID); err != nil {
		s.logger.Error("Failed to delete post", zap.String("postID", postID.String()), zap.Error(err))
		return err
	}
	s.logger.Info("Post deleted", zap.String("postID", postID.String()))
	return nil
}

// ToggleLike likes the post, or removes an existing like. Only a new like notifies the author.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uuid.UUID) (*likePort.LikeStatusDTO, error) {
	p, err := s.find(ctx, postID)
	if err != nil {
		return nil, err
	}

	var liked bool
	err = s.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var inserted bool
		liked, inserted, err = s.LikeRepository.Toggle(ctx, userID, postID)
		if err != nil || !inserted {
			return err
		}
		liker, err := s.UserRepository.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		return s.Notifier.Dispatch(ctx, notificationEntity.LikeCreated{Liker: liker, Post: p})
	})
	if err != nil {
		s.logger.Error("Failed to toggle like", zap.String("postID", postID.String()), zap.Error(err))
		return nil, err
	}

	if liked {
		return &likePort.LikeStatusDTO{Status: likePort.StatusLiked}, nil
	}
	return &likePort.LikeStatusDTO{Status: likePort.StatusUnliked}, nil
}

// ToggleRetweet retweets the post, or undoes an existing retweet.
func (s *PostService) ToggleRetweet(ctx context.Context, userID, postID uuid.UUID) (*postPort.RetweetStatusDTO, error) {
	if _, err := s.find(ctx, postID); err != nil {
		return nil, err
	}

	retweeted, _, err := s.PostRepository.ToggleRetweet(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	count, err := s.PostRepository.CountRetweets(ctx, postID)
	if err != nil {
		return nil, err
	}

	status := postPort.StatusUnretweeted
	if retweeted {
		status = postPort.StatusRetweeted
	}
	return &postPort.RetweetStatusDTO{Status: status, RetweetsCount: count}, nil
}

func (s *PostService) find(ctx context.Context, postID uuid.UUID) (*postEntity.Post, error) {
	p, err := s.PostRepository.FindByID(ctx, postID)
	if errors.Is(err, errs.ErrRecordNotFound) {
		return nil, errs.NotFound("post not found")
	}
	return p, err
}

func (s *PostService) toDTOs(ctx context.Context, viewerID uuid.UUID, posts []*postEntity.Post) ([]*postPort.PostDTO, error) {
	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	stats, err := s.PostRepository.Stats(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*postPort.PostDTO, 0, len(posts))
	for _, p := range posts {
		st := stats[p.ID]
		if st == nil {
			st = &postEntity.Stats{}
		}
		out = append(out, &postPort.PostDTO{
			ID:            p.ID.String(),
			Content:       p.Content,
			Image:         p.Image,
			Location:      p.Location,
			UserID:        p.UserID.String(),
			User:          userPort.NewUserSummary(&p.User),
			CreatedAt:     p.CreatedAt,
			UpdatedAt:     p.UpdatedAt,
			LikesCount:    st.Likes,
			CommentsCount: st.Comments,
			RetweetsCount: st.Retweets,
			IsLiked:       st.Liked,
			IsRetweeted:   st.Retweeted,
		})
	}
	return out, nil
}

func checkContent(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	switch n := utf8.RuneCountInString(content); {
	case n == 0:
		return "", errs.FieldError("content", "this field may not be blank")
	case n > postEntity.MaxContentLength:
		return "", errs.FieldError("content", fmt.Sprintf("must be at most %d characters", postEntity.MaxContentLength))
	}
	return content, nil
}
