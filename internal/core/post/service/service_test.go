package postapp_test

import (
	"context"
	"strings"
	"testing"

	"xclone/internal/adapters/database"
	"xclone/internal/core/errs"
	notificationapp "xclone/internal/core/notification/service"
	postapp "xclone/internal/core/post/service"
	likePort "xclone/internal/ports/like"
	postPort "xclone/internal/ports/post"
	"xclone/internal/testutil"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db            *gorm.DB
	svc           *postapp.PostService
	notifications *notificationapp.NotificationService
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	notifications := notificationapp.NewNotificationService(database.NewNotificationRepositoryDatabase(db), zap.NewNop())
	svc := postapp.NewPostService(
		database.NewPostRepositoryDatabase(db),
		database.NewLikeRepositoryDatabase(db),
		database.NewUserRepositoryDatabase(db),
		database.NewTransactor(db),
		notifications,
		zap.NewNop(),
	)
	return &fixture{db: db, svc: svc, notifications: notifications}
}

func (f *fixture) unread(t *testing.T, userID uuid.UUID) int64 {
	t.Helper()
	inbox, err := f.notifications.List(context.Background(), userID)
	require.NoError(t, err)
	return inbox.UnreadCount
}

func TestCreatePost(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice")

	dto, err := f.svc.CreatePost(ctx, alice.ID, postPort.NewPost{Content: "  hello world  ", Location: "Lisbon"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", dto.Content)
	assert.Equal(t, "Lisbon", dto.Location)
	assert.Equal(t, alice.ID.String(), dto.UserID)
	require.NotNil(t, dto.User)
	assert.Equal(t, "alice", dto.User.Username)
	assert.Zero(t, dto.LikesCount)

	t.Run("blank", func(t *testing.T) {
		_, err := f.svc.CreatePost(ctx, alice.ID, postPort.NewPost{Content: "   "})
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	})

	t.Run("too long", func(t *testing.T) {
		_, err := f.svc.CreatePost(ctx, alice.ID, postPort.NewPost{Content: strings.Repeat("a", 281)})
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))

		_, err = f.svc.CreatePost(ctx, alice.ID, postPort.NewPost{Content: strings.Repeat("é", 280)})
		assert.NoError(t, err)
	})
}

func TestMentionsNotify(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")

	_, err := f.svc.CreatePost(ctx, alice.ID, postPort.NewPost{Content: "hey @bob and @bob, @alice and @ghost"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), f.unread(t, bob.ID))
	assert.Zero(t, f.unread(t, alice.ID))
}

func TestMentionsMatchDottedUsernames(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice")
	john := testutil.CreateUser(t, f.db, "john")
	johnDoe := testutil.CreateUser(t, f.db, "john.doe")
	mary := testutil.CreateUser(t, f.db, "mary-k")

	t.Run("dot inside the name", func(t *testing.T) {
		_, err := f.svc.CreatePost(ctx, alice.ID, postPort.NewPost{Content: "hi @john.doe"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), f.unread(t, johnDoe.ID))
		assert.Zero(t, f.unread(t, john.ID))
	})

	t.Run("trailing period is punctuation", func(t *testing.T) {
		_, err := f.svc.CreatePost(ctx, alice.ID, postPort.NewPost{Content: "thanks @john. and @mary-k."})
		require.NoError(t, err)
		assert.Equal(t, int64(1), f.unread(t, john.ID))
		assert.Equal(t, int64(1), f.unread(t, mary.ID))
		assert.Equal(t, int64(1), f.unread(t, johnDoe.ID))
	})
}

func TestListPosts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "a")
	b := testutil.CreateUser(t, f.db, "b")
	c := testutil.CreateUser(t, f.db, "c")

	_, _, err := database.NewFollowerRepositoryDatabase(f.db).Toggle(ctx, a.ID, b.ID)
	require.NoError(t, err)

	p1, err := f.svc.CreatePost(ctx, a.ID, postPort.NewPost{Content: "p1"})
	require.NoError(t, err)
	p2, err := f.svc.CreatePost(ctx, b.ID, postPort.NewPost{Content: "p2"})
	require.NoError(t, err)
	p3, err := f.svc.CreatePost(ctx, c.ID, postPort.NewPost{Content: "p3"})
	require.NoError(t, err)

	ids := func(posts []*postPort.PostDTO) []string {
		out := make([]string, 0, len(posts))
		for _, p := range posts {
			out = append(out, p.ID)
		}
		return out
	}

	feed, err := f.svc.ListPosts(ctx, a.ID, postPort.ListFilter{Feed: true})
	require.NoError(t, err)
	assert.Equal(t, []string{p2.ID, p1.ID}, ids(feed))

	all, err := f.svc.ListPosts(ctx, a.ID, postPort.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{p3.ID, p2.ID, p1.ID}, ids(all))

	byUser, err := f.svc.ListPosts(ctx, a.ID, postPort.ListFilter{Username: "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{p3.ID}, ids(byUser))

	unknown, err := f.svc.ListPosts(ctx, a.ID, postPort.ListFilter{Username: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestToggleLike(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")

	p, err := f.svc.CreatePost(ctx, alice.ID, postPort.NewPost{Content: "like me"})
	require.NoError(t, err)
	postID := uuid.FromStringOrNil(p.ID)

	res, err := f.svc.ToggleLike(ctx, bob.ID, postID)
	require.NoError(t, err)
	assert.Equal(t, likePort.StatusLiked, res.Status)

	got, err := f.svc.GetPost(ctx, bob.ID, postID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LikesCount)
	assert.True(t, got.IsLiked)

	res, err = f.svc.ToggleLike(ctx, bob.ID, postID)
	require.NoError(t, err)
	assert.Equal(t, likePort.StatusUnliked, res.Status)

	got, err = f.svc.GetPost(ctx, bob.ID, postID)
	require.NoError(t, err)
	assert.Zero(t, got.LikesCount)
	assert.False(t, got.IsLiked)

	// one like event; the unlike leaves it in place
	assert.Equal(t, int64(1), f.unread(t, alice.ID))

	_, err = f.svc.ToggleLike(ctx, alice.ID, postID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.unread(t, alice.ID))

	_, err = f.svc.ToggleLike(ctx, bob.ID, uuid.Must(uuid.NewV4()))
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestToggleRetweet(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")

	p, err := f.svc.CreatePost(ctx, alice.ID, postPort.NewPost{Content: "share me"})
	require.NoError(t, err)
	postID := uuid.FromStringOrNil(p.ID)

	res, err := f.svc.ToggleRetweet(ctx, bob.ID, postID)
	require.NoError(t, err)
	assert.Equal(t, postPort.RetweetStatusDTO{Status: postPort.StatusRetweeted, RetweetsCount: 1}, *res)

	res, err = f.svc.ToggleRetweet(ctx, alice.ID, postID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.RetweetsCount)

	res, err = f.svc.ToggleRetweet(ctx, bob.ID, postID)
	require.NoError(t, err)
	assert.Equal(t, postPort.RetweetStatusDTO{Status: postPort.StatusUnretweeted, RetweetsCount: 1}, *res)
}

func TestUpdateAndDeleteAreAuthorOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")

	p, err := f.svc.CreatePost(ctx, alice.ID, postPort.NewPost{Content: "original"})
	require.NoError(t, err)
	postID := uuid.FromStringOrNil(p.ID)

	edited := "edited"
	_, err = f.svc.UpdatePost(ctx, bob.ID, postID, postPort.PostUpdate{Content: &edited})
	assert.Equal(t, errs.KindForbidden, errs.KindOf(err))

	dto, err := f.svc.UpdatePost(ctx, alice.ID, postID, postPort.PostUpdate{Content: &edited})
	require.NoError(t, err)
	assert.Equal(t, "edited", dto.Content)

	assert.Equal(t, errs.KindForbidden, errs.KindOf(f.svc.DeletePost(ctx, bob.ID, postID)))
	require.NoError(t, f.svc.DeletePost(ctx, alice.ID, postID))

	_, err = f.svc.GetPost(ctx, alice.ID, postID)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}
