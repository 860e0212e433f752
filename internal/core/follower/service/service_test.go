package followerapp_test

import (
	"context"
	"testing"

	"xclone/internal/adapters/database"
	"xclone/internal/core/errs"
	followerapp "xclone/internal/core/follower/service"
	notificationapp "xclone/internal/core/notification/service"
	followerPort "xclone/internal/ports/follower"
	"xclone/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestToggleFollow(t *testing.T) {
	db := testutil.NewDB(t)
	notifications := notificationapp.NewNotificationService(database.NewNotificationRepositoryDatabase(db), zap.NewNop())
	svc := followerapp.NewFollowerService(
		database.NewFollowerRepositoryDatabase(db),
		database.NewUserRepositoryDatabase(db),
		database.NewTransactor(db),
		notifications,
		zap.NewNop(),
	)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	res, err := svc.ToggleFollow(ctx, alice.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, followerPort.StatusFollowed, res.Status)

	followers, err := svc.GetFollowers(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].Username)

	following, err := svc.GetFollowing(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "bob", following[0].Username)

	inbox, err := notifications.List(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, inbox.Notifications, 1)
	assert.Equal(t, "follow", inbox.Notifications[0].NotificationType)
	assert.Equal(t, "none", inbox.Notifications[0].TargetType)
	assert.Nil(t, inbox.Notifications[0].ObjectID)

	res, err = svc.ToggleFollow(ctx, alice.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, followerPort.StatusUnfollowed, res.Status)

	followers, err = svc.GetFollowers(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, followers)

	// unfollowing does not retract or add notifications
	inbox, err = notifications.List(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, inbox.Notifications, 1)

	t.Run("self follow", func(t *testing.T) {
		_, err := svc.ToggleFollow(ctx, alice.ID, "alice")
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.ToggleFollow(ctx, alice.ID, "nobody")
		assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	})

	t.Run("lists for unknown user are empty", func(t *testing.T) {
		list, err := svc.GetFollowers(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})
}
