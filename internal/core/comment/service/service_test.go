package commentapp_test

import (
	"context"
	"strings"
	"testing"

	"xclone/internal/adapters/database"
	commentapp "xclone/internal/core/comment/service"
	"xclone/internal/core/errs"
	notificationapp "xclone/internal/core/notification/service"
	"xclone/internal/core/post"
	"xclone/internal/testutil"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestComments(t *testing.T) {
	db := testutil.NewDB(t)
	notifications := notificationapp.NewNotificationService(database.NewNotificationRepositoryDatabase(db), zap.NewNop())
	posts := database.NewPostRepositoryDatabase(db)
	svc := commentapp.NewCommentService(
		database.NewCommentRepositoryDatabase(db),
		posts,
		database.NewUserRepositoryDatabase(db),
		database.NewTransactor(db),
		notifications,
		zap.NewNop(),
	)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	p, err := posts.Create(ctx, &post.Post{ID: uuid.Must(uuid.NewV4()), UserID: alice.ID, Content: "hello"})
	require.NoError(t, err)

	long := strings.Repeat("x", 80)
	c, err := svc.CreateComment(ctx, bob.ID, p.ID, long)
	require.NoError(t, err)
	assert.Equal(t, p.ID.String(), c.PostID)
	require.NotNil(t, c.User)
	assert.Equal(t, "bob", c.User.Username)

	_, err = svc.CreateComment(ctx, alice.ID, p.ID, "thanks")
	require.NoError(t, err)

	inbox, err := notifications.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, inbox.Notifications, 1)
	assert.Equal(t, "comment", inbox.Notifications[0].NotificationType)
	assert.Equal(t, "bob commented: "+strings.Repeat("x", 50), inbox.Notifications[0].Text)

	list, err := svc.ListComments(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "thanks", list[0].Content)

	commentID := uuid.FromStringOrNil(c.ID)

	t.Run("only the author edits", func(t *testing.T) {
		_, err := svc.UpdateComment(ctx, alice.ID, commentID, "hijack")
		assert.Equal(t, errs.KindForbidden, errs.KindOf(err))

		updated, err := svc.UpdateComment(ctx, bob.ID, commentID, "better")
		require.NoError(t, err)
		assert.Equal(t, "better", updated.Content)
	})

	t.Run("only the author deletes", func(t *testing.T) {
		assert.Equal(t, errs.KindForbidden, errs.KindOf(svc.DeleteComment(ctx, alice.ID, commentID)))
		require.NoError(t, svc.DeleteComment(ctx, bob.ID, commentID))

		_, err := svc.GetComment(ctx, commentID)
		assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, bob.ID, uuid.Must(uuid.NewV4()), "hi")
		assert.Equal(t, errs.KindNotFound, errs.KindOf(err))

		_, err = svc.ListComments(ctx, uuid.Must(uuid.NewV4()))
		assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	})

	t.Run("blank content", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, bob.ID, p.ID, " ")
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	})
}
