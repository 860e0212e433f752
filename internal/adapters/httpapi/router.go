package httpapi

import (
	"context"
	"net/http"
	"time"

	"xclone/internal/adapters/httpapi/middleware"
	chatPort "xclone/internal/ports/chat"
	commentPort "xclone/internal/ports/comment"
	followerPort "xclone/internal/ports/follower"
	likePort "xclone/internal/ports/like"
	notificationPort "xclone/internal/ports/notification"
	postPort "xclone/internal/ports/post"
	userPort "xclone/internal/ports/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// Inbound ports implemented by the core services.

type UserUseCase interface {
	Register(ctx context.Context, username, email, password string) (*userPort.AuthResponse, error)
	Login(ctx context.Context, username, password string) (*userPort.AuthResponse, error)
	SocialLogin(ctx context.Context, provider, token string) (*userPort.AuthResponse, error)
	Logout(ctx context.Context, p *userPort.Principal) error
	LogoutAll(ctx context.Context, p *userPort.Principal) error
	Authenticate(ctx context.Context, token string) (*userPort.Principal, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*userPort.UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in userPort.ProfileUpdate) (*userPort.UserDTO, error)
	GetUserByUsername(ctx context.Context, viewerID uuid.UUID, username string) (*userPort.UserDTO, error)
}

type FollowerUseCase interface {
	ToggleFollow(ctx context.Context, followerID uuid.UUID, username string) (*followerPort.FollowStatusDTO, error)
	GetFollowers(ctx context.Context, username string) ([]*userPort.UserSummaryDTO, error)
	GetFollowing(ctx context.Context, username string) ([]*userPort.UserSummaryDTO, error)
}

type PostUseCase interface {
	CreatePost(ctx context.Context, userID uuid.UUID, in postPort.NewPost) (*postPort.PostDTO, error)
	ListPosts(ctx context.Context, viewerID uuid.UUID, filter postPort.ListFilter) ([]*postPort.PostDTO, error)
	GetPost(ctx context.Context, viewerID, postID uuid.UUID) (*postPort.PostDTO, error)
	UpdatePost(ctx context.Context, userID, postID uuid.UUID, in postPort.PostUpdate) (*postPort.PostDTO, error)
	DeletePost(ctx context.Context, userID, postID uuid.UUID) error
	ToggleLike(ctx context.Context, userID, postID uuid.UUID) (*likePort.LikeStatusDTO, error)
	ToggleRetweet(ctx context.Context, userID, postID uuid.UUID) (*postPort.RetweetStatusDTO, error)
}

type CommentUseCase interface {
	CreateComment(ctx context.Context, userID, postID uuid.UUID, content string) (*commentPort.CommentDTO, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]*commentPort.CommentDTO, error)
	GetComment(ctx context.Context, id uuid.UUID) (*commentPort.CommentDTO, error)
	UpdateComment(ctx context.Context, userID, id uuid.UUID, content string) (*commentPort.CommentDTO, error)
	DeleteComment(ctx context.Context, userID, id uuid.UUID) error
}

type ChatUseCase interface {
	ListConversations(ctx context.Context, userID uuid.UUID) ([]*chatPort.ConversationDTO, error)
	SendMessage(ctx context.Context, senderID, recipientID uuid.UUID, content string) (*chatPort.SendMessageDTO, error)
	ListMessages(ctx context.Context, userID, conversationID uuid.UUID) ([]*chatPort.MessageDTO, error)
	MarkConversationRead(ctx context.Context, userID, conversationID uuid.UUID) (*chatPort.MarkReadDTO, error)
	DeleteMessage(ctx context.Context, userID, messageID uuid.UUID) (*chatPort.MessageDTO, error)
	DeleteConversation(ctx context.Context, userID, conversationID uuid.UUID) error
}

type NotificationUseCase interface {
	List(ctx context.Context, recipientID uuid.UUID) (*notificationPort.NotificationListDTO, error)
	MarkRead(ctx context.Context, recipientID uuid.UUID, id *uuid.UUID) (*notificationPort.UnreadCountDTO, error)
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (*notificationPort.UnreadCountDTO, error)
}

// UseCases bundles the services the router dispatches to.
type UseCases struct {
	Users         UserUseCase
	Followers     FollowerUseCase
	Posts         PostUseCase
	Comments      CommentUseCase
	Chats         ChatUseCase
	Notifications NotificationUseCase
}

// SetupRoutes only does routing; the use cases are injected from outside.
func SetupRoutes(uc UseCases, corsOrigins []string, logger *zap.Logger) *gin.Engine {
	registerTagNames()

	r := gin.Default()
	r.Use(cors.New(corsConfig(corsOrigins)))

	e := &errorResponder{logger: logger}
	userCtl := NewUserController(uc.Users, e)
	followerCtl := NewFollowerController(uc.Followers, e)
	postCtl := NewPostController(uc.Posts, e)
	commentCtl := NewCommentController(uc.Comments, e)
	chatCtl := NewChatController(uc.Chats, e)
	notificationCtl := NewNotificationController(uc.Notifications, e)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// no bearer token needed
	r.POST("/register", userCtl.Register)
	r.POST("/login", userCtl.Login)
	r.POST("/google-login", userCtl.GoogleLogin)
	r.POST("/apple-login", userCtl.AppleLogin)

	auth := r.Group("/", middleware.JWTAuthMiddleware(uc.Users))

	auth.POST("/logout", userCtl.Logout)
	auth.POST("/logout-all", userCtl.LogoutAll)
	auth.GET("/profile", userCtl.GetProfile)
	auth.PATCH("/profile", userCtl.UpdateProfile)

	auth.GET("/users/:username", userCtl.GetUser)
	auth.POST("/users/:username/follow", followerCtl.ToggleFollow)
	auth.GET("/users/:username/followers", followerCtl.GetFollowers)
	auth.GET("/users/:username/following", followerCtl.GetFollowing)

	auth.GET("/posts", postCtl.ListPosts)
	auth.POST("/posts", postCtl.CreatePost)
	auth.GET("/posts/:id", postCtl.GetPost)
	auth.PATCH("/posts/:id", postCtl.UpdatePost)
	auth.DELETE("/posts/:id", postCtl.DeletePost)
	auth.POST("/posts/:id/like", postCtl.ToggleLike)
	auth.POST("/posts/:id/retweet", postCtl.ToggleRetweet)
	auth.GET("/posts/:id/comments", commentCtl.ListComments)
	auth.POST("/posts/:id/comments", commentCtl.CreateComment)

	auth.GET("/comments/:id", commentCtl.GetComment)
	auth.PATCH("/comments/:id", commentCtl.UpdateComment)
	auth.DELETE("/comments/:id", commentCtl.DeleteComment)

	auth.GET("/conversations", chatCtl.ListConversations)
	auth.GET("/conversations/:id/messages", chatCtl.ListMessages)
	auth.POST("/conversations/:id/read", chatCtl.MarkRead)
	auth.DELETE("/conversations/:id", chatCtl.DeleteConversation)
	auth.POST("/messages", chatCtl.SendMessage)
	auth.DELETE("/messages/:id", chatCtl.DeleteMessage)

	auth.GET("/notifications", notificationCtl.List)
	auth.POST("/notifications/mark-read", notificationCtl.MarkRead)
	auth.POST("/notifications/mark-all-read", notificationCtl.MarkAllRead)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}
