package followerapp

import (
	"context"
	"errors"

	"xclone/internal/core/errs"
	notificationEntity "xclone/internal/core/notification"
	userEntity "xclone/internal/core/user"
	followerPort "xclone/internal/ports/follower"
	notificationPort "xclone/internal/ports/notification"
	txPort "xclone/internal/ports/tx"
	userPort "xclone/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type FollowerService struct {
	FollowerRepository followerPort.FollowerRepository
	UserRepository     userPort.UserRepository
	Transactor         txPort.Transactor
	Notifier           notificationPort.Dispatcher
	logger             *zap.Logger
}

func NewFollowerService(
	repo followerPort.FollowerRepository,
	userRepo userPort.UserRepository,
	transactor txPort.Transactor,
	notifier notificationPort.Dispatcher,
	logger *zap.Logger,
) *FollowerService {
	return &FollowerService{
		FollowerRepository: repo,
		UserRepository:     userRepo,
		Transactor:         transactor,
		Notifier:           notifier,
		logger:             logger,
	}
}

// ToggleFollow follows username if the caller does not yet, and unfollows otherwise.
func (s *FollowerService) ToggleFollow(ctx context.Context, followerID uuid.UUID, username string) (*followerPort.FollowStatusDTO, error) {
	followee, err := s.UserRepository.FindByUsername(ctx, username)
	if errors.Is(err, errs.ErrRecordNotFound) {
		return nil, errs.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	if followee.ID == followerID {
		s.logger.Warn("Cannot follow yourself", zap.String("userID", followerID.String()))
		return nil, errs.Validation("you cannot follow yourself")
	}

	var following bool
	err = s.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var inserted bool
		following, inserted, err = s.FollowerRepository.Toggle(ctx, followerID, followee.ID)
		if err != nil || !inserted {
			return err
		}

		follower, err := s.UserRepository.FindByID(ctx, followerID)
		if err != nil {
			return err
		}
		return s.Notifier.Dispatch(ctx, notificationEntity.FollowAdded{Follower: follower, Followee: followee})
	})
	if err != nil {
		s.logger.Error("Failed to toggle follow", zap.String("userID", followerID.String()), zap.String("followee", username), zap.Error(err))
		return nil, err
	}

	if following {
		return &followerPort.FollowStatusDTO{Status: followerPort.StatusFollowed}, nil
	}
	return &followerPort.FollowStatusDTO{Status: followerPort.StatusUnfollowed}, nil
}

// GetFollowers lists who follows username. Unknown usernames yield an empty list.
func (s *FollowerService) GetFollowers(ctx context.Context, username string) ([]*userPort.UserSummaryDTO, error) {
	return s.list(ctx, username, s.FollowerRepository.Followers)
}

// GetFollowing lists who username follows. Unknown usernames yield an empty list.
func (s *FollowerService) GetFollowing(ctx context.Context, username string) ([]*userPort.UserSummaryDTO, error) {
	return s.list(ctx, username, s.FollowerRepository.Following)
}

func (s *FollowerService) list(ctx context.Context, username string, load func(context.Context, uuid.UUID) ([]*userEntity.User, error)) ([]*userPort.UserSummaryDTO, error) {
	u, err := s.UserRepository.FindByUsername(ctx, username)
	if errors.Is(err, errs.ErrRecordNotFound) {
		return []*userPort.UserSummaryDTO{}, nil
	}
	if err != nil {
		return nil, err
	}

	users, err := load(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return userPort.NewUserSummaries(users), nil
}
