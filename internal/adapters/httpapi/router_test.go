package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"xclone/internal/adapters/database"
	"xclone/internal/adapters/httpapi"
	redisAdapter "xclone/internal/adapters/redis"
	chatapp "xclone/internal/core/chat/service"
	commentapp "xclone/internal/core/comment/service"
	followerapp "xclone/internal/core/follower/service"
	notificationapp "xclone/internal/core/notification/service"
	postapp "xclone/internal/core/post/service"
	userapp "xclone/internal/core/user/service"
	"xclone/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type api struct {
	t *testing.T
	r *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	client, _ := testutil.NewRedis(t)
	log := zap.NewNop()

	userRepo := database.NewUserRepositoryDatabase(db)
	followerRepo := database.NewFollowerRepositoryDatabase(db)
	postRepo := database.NewPostRepositoryDatabase(db)
	tx := database.NewTransactor(db)
	notifications := notificationapp.NewNotificationService(database.NewNotificationRepositoryDatabase(db), log)

	users := userapp.NewUserService(userRepo, followerRepo, redisAdapter.NewSessionRepositoryRedis(client), nil, []byte("secret"), time.Hour, log)
	users.HashCost = bcrypt.MinCost

	r := httpapi.SetupRoutes(httpapi.UseCases{
		Users:         users,
		Followers:     followerapp.NewFollowerService(followerRepo, userRepo, tx, notifications, log),
		Posts:         postapp.NewPostService(postRepo, database.NewLikeRepositoryDatabase(db), userRepo, tx, notifications, log),
		Comments:      commentapp.NewCommentService(database.NewCommentRepositoryDatabase(db), postRepo, userRepo, tx, notifications, log),
		Chats:         chatapp.NewChatService(database.NewChatRepositoryDatabase(db), userRepo, tx, notifications, log),
		Notifications: notifications,
	}, nil, log)

	return &api{t: t, r: r}
}

// do sends a JSON request and decodes the JSON response into out when given.
func (a *api) do(method, path, token string, body interface{}, out interface{}) int {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)

	if out != nil && w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

func (a *api) register(username string) authResponse {
	a.t.Helper()
	var res authResponse
	code := a.do(http.MethodPost, "/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}, &res)
	require.Equal(a.t, http.StatusCreated, code)
	return res
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/health", "", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAuthFlow(t *testing.T) {
	a := newAPI(t)

	alice := a.register("alice")
	assert.NotEmpty(t, alice.Token)

	t.Run("validation errors name json fields", func(t *testing.T) {
		var body struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		code := a.do(http.MethodPost, "/register", "", map[string]string{"username": "bob", "email": "nope", "password": "short"}, &body)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, body.Fields, "email")
		assert.Contains(t, body.Fields, "password")
	})

	t.Run("duplicate", func(t *testing.T) {
		code := a.do(http.MethodPost, "/register", "", map[string]string{"username": "alice", "email": "x@example.com", "password": "password123"}, nil)
		assert.Equal(t, http.StatusConflict, code)
	})

	t.Run("bad login", func(t *testing.T) {
		var body map[string]string
		code := a.do(http.MethodPost, "/login", "", map[string]string{"username": "alice", "password": "nope-nope"}, &body)
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "invalid credentials", body["error"])
	})

	t.Run("missing token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/profile", "", nil, nil))
		assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/profile", "garbage", nil, nil))
	})

	t.Run("profile and logout", func(t *testing.T) {
		var login authResponse
		require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/login", "", map[string]string{"username": "alice", "password": "password123"}, &login))

		var profile map[string]interface{}
		require.Equal(t, http.StatusOK, a.do(http.MethodPatch, "/profile", login.Token, map[string]string{"bio": "hi"}, &profile))
		assert.Equal(t, "hi", profile["bio"])
		assert.Equal(t, "alice@example.com", profile["email"])

		assert.Equal(t, http.StatusNoContent, a.do(http.MethodPost, "/logout", login.Token, nil, nil))
		assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/profile", login.Token, nil, nil))
		assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/profile", alice.Token, nil, nil))
	})

	t.Run("social login without configured provider", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/google-login", "", map[string]string{"token": "x"}, nil))
	})
}

func TestSocialFlow(t *testing.T) {
	a := newAPI(t)
	alice := a.register("alice")
	bob := a.register("bob")

	// follow round trip
	var status map[string]interface{}
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/users/bob/follow", alice.Token, nil, &status))
	assert.Equal(t, "followed", status["status"])
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/users/alice/follow", alice.Token, nil, nil))
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPost, "/users/ghost/follow", alice.Token, nil, nil))

	var profile struct {
		FollowersCount int64 `json:"followers_count"`
		IsFollowing    *bool `json:"is_following"`
	}
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/users/bob", alice.Token, nil, &profile))
	assert.Equal(t, int64(1), profile.FollowersCount)
	require.NotNil(t, profile.IsFollowing)
	assert.True(t, *profile.IsFollowing)

	var followers []map[string]interface{}
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/users/ghost/followers", alice.Token, nil, &followers))
	assert.Empty(t, followers)

	// posts, likes and comments
	var post struct {
		ID string `json:"id"`
	}
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/posts", bob.Token, map[string]string{"content": "hello"}, &post))

	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/posts/"+post.ID+"/like", alice.Token, nil, &status))
	assert.Equal(t, "liked", status["status"])
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/posts/"+post.ID+"/retweet", alice.Token, nil, &status))
	assert.Equal(t, "retweeted", status["status"])
	assert.EqualValues(t, 1, status["retweets_count"])

	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/posts/"+post.ID+"/comments", alice.Token, map[string]string{"content": "nice"}, nil))

	var feed []struct {
		ID            string `json:"id"`
		LikesCount    int64  `json:"likes_count"`
		CommentsCount int64  `json:"comments_count"`
		IsLiked       bool   `json:"is_liked"`
	}
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/posts?feed=1", alice.Token, nil, &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, post.ID, feed[0].ID)
	assert.Equal(t, int64(1), feed[0].LikesCount)
	assert.Equal(t, int64(1), feed[0].CommentsCount)
	assert.True(t, feed[0].IsLiked)

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodDelete, "/posts/"+post.ID, alice.Token, nil, nil))
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/posts/not-a-uuid", alice.Token, nil, nil))

	// bob now has follow, like and comment notifications
	var inbox struct {
		Notifications []struct {
			ID               string `json:"id"`
			NotificationType string `json:"notification_type"`
		} `json:"notifications"`
		UnreadCount int64 `json:"unread_count"`
	}
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/notifications", bob.Token, nil, &inbox))
	assert.Len(t, inbox.Notifications, 3)
	assert.Equal(t, int64(3), inbox.UnreadCount)

	var unread struct {
		UnreadCount int64 `json:"unread_count"`
	}
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/notifications/mark-read", bob.Token, map[string]string{"notification_id": inbox.Notifications[0].ID}, &unread))
	assert.Equal(t, int64(2), unread.UnreadCount)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPost, "/notifications/mark-read", alice.Token, map[string]string{"notification_id": inbox.Notifications[1].ID}, nil))
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/notifications/mark-read", bob.Token, nil, &unread))
	assert.Zero(t, unread.UnreadCount)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/posts/"+post.ID, bob.Token, nil, nil))
}

func TestMessagingFlow(t *testing.T) {
	a := newAPI(t)
	alice := a.register("alice")
	bob := a.register("bob")

	var sent struct {
		ConversationID string `json:"conversation_id"`
		Message        struct {
			ID      string `json:"id"`
			Content string `json:"content"`
		} `json:"message"`
	}
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/messages", alice.Token, map[string]string{"recipient_id": bob.User.ID, "content": "hi"}, &sent))
	assert.Equal(t, "hi", sent.Message.Content)

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/messages", alice.Token, map[string]string{"recipient_id": alice.User.ID, "content": "me"}, nil))
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/messages", alice.Token, map[string]string{"recipient_id": "nope", "content": "x"}, nil))

	var convs []struct {
		ID          string `json:"id"`
		UnreadCount int64  `json:"unread_count"`
	}
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/conversations", bob.Token, nil, &convs))
	require.Len(t, convs, 1)
	assert.Equal(t, sent.ConversationID, convs[0].ID)
	assert.Equal(t, int64(1), convs[0].UnreadCount)

	var msgs []struct {
		IsRead bool `json:"is_read"`
	}
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/conversations/"+sent.ConversationID+"/messages", bob.Token, nil, &msgs))
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].IsRead)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, "/messages/"+sent.Message.ID, bob.Token, nil, nil))

	var deleted struct {
		Content   string `json:"content"`
		IsDeleted bool   `json:"is_deleted"`
	}
	require.Equal(t, http.StatusOK, a.do(http.MethodDelete, "/messages/"+sent.Message.ID, alice.Token, nil, &deleted))
	assert.True(t, deleted.IsDeleted)
	assert.Empty(t, deleted.Content)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/conversations/"+sent.ConversationID, bob.Token, nil, nil))
}
