package main

import (
	"context"
	"fmt"

	dbadapter "xclone/internal/adapters/database"
	"xclone/internal/adapters/httpapi"
	redisadapter "xclone/internal/adapters/redis"
	socialadapter "xclone/internal/adapters/social"
	"xclone/internal/config"
	chatapp "xclone/internal/core/chat/service"
	commentapp "xclone/internal/core/comment/service"
	"xclone/internal/core/errs"
	followerapp "xclone/internal/core/follower/service"
	notificationapp "xclone/internal/core/notification/service"
	postapp "xclone/internal/core/post/service"
	userapp "xclone/internal/core/user/service"
	postPort "xclone/internal/ports/post"
	socialPort "xclone/internal/ports/social"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

func main() {
	settings := config.Init()
	defer func() { _ = config.Logger.Sync() }()

	db := config.InitDB(settings)
	if err := dbadapter.Migrate(db); err != nil {
		config.Logger.Fatal("Error during migrations", zap.Error(err))
	}
	config.Logger.Info("Database migrations completed")

	redisClient := config.InitRedis(settings)

	defer closeResources(config.Logger)

	logger := config.Logger

	// outbound adapters
	userRepo := dbadapter.NewUserRepositoryDatabase(db)
	followerRepo := dbadapter.NewFollowerRepositoryDatabase(db)
	postRepo := dbadapter.NewPostRepositoryDatabase(db)
	likeRepo := dbadapter.NewLikeRepositoryDatabase(db)
	commentRepo := dbadapter.NewCommentRepositoryDatabase(db)
	chatRepo := dbadapter.NewChatRepositoryDatabase(db)
	notificationRepo := dbadapter.NewNotificationRepositoryDatabase(db)
	transactor := dbadapter.NewTransactor(db)
	sessions := redisadapter.NewSessionRepositoryRedis(redisClient)

	verifiers := map[string]socialPort.Verifier{}
	if settings.GoogleClientID != "" {
		verifiers[socialPort.ProviderGoogle] = socialadapter.NewGoogleVerifier(settings.GoogleClientID)
	}
	if settings.AppleClientID != "" {
		verifiers[socialPort.ProviderApple] = socialadapter.NewAppleVerifier(settings.AppleClientID)
	}

	// services
	notificationSvc := notificationapp.NewNotificationService(notificationRepo, logger)
	userSvc := userapp.NewUserService(userRepo, followerRepo, sessions, verifiers, []byte(settings.JWTSecret), settings.TokenTTL, logger)
	followerSvc := followerapp.NewFollowerService(followerRepo, userRepo, transactor, notificationSvc, logger)
	postSvc := postapp.NewPostService(postRepo, likeRepo, userRepo, transactor, notificationSvc, logger)
	commentSvc := commentapp.NewCommentService(commentRepo, postRepo, userRepo, transactor, notificationSvc, logger)
	chatSvc := chatapp.NewChatService(chatRepo, userRepo, transactor, notificationSvc, logger)

	r := httpapi.SetupRoutes(httpapi.UseCases{
		Users:         userSvc,
		Followers:     followerSvc,
		Posts:         postSvc,
		Comments:      commentSvc,
		Chats:         chatSvc,
		Notifications: notificationSvc,
	}, settings.CORSOrigins, logger)

	if settings.SeedUsers > 0 {
		seedDemoData(context.Background(), logger, settings.SeedUsers, userSvc, followerSvc, postSvc, chatSvc)
	}

	logger.Info("App is running...", zap.String("port", settings.AppPort))
	if err := r.Run(":" + settings.AppPort); err != nil {
		logger.Fatal("Server failed to start", zap.Error(err))
	}
}

// closeResources closes the Redis and database connections.
func closeResources(logger *zap.Logger) {
	if err := config.RedisClient.Close(); err != nil {
		logger.Error("Error closing Redis connection", zap.Error(err))
	}

	sqlDB, err := config.DB.DB()
	if err != nil {
		logger.Error("Error getting raw DB", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	}
}

// seedDemoData creates n demo accounts in a follow ring, one post each, a like
// on the previous user's post and a message to the next user. The graph is
// only built when every account is new, so a restart does not toggle it back.
func seedDemoData(
	ctx context.Context,
	logger *zap.Logger,
	n int,
	userSvc *userapp.UserService,
	followerSvc *followerapp.FollowerService,
	postSvc *postapp.PostService,
	chatSvc *chatapp.ChatService,
) {
	logger.Info("Seeding demo data", zap.Int("users", n))

	ids := make([]uuid.UUID, 0, n)
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		username := fmt.Sprintf("demo%d", i)
		res, err := userSvc.Register(ctx, username, username+"@example.com", "password123")
		if errs.KindOf(err) == errs.KindConflict {
			logger.Info("Demo data already present", zap.String("username", username))
			return
		}
		if err != nil {
			logger.Error("Error creating demo user", zap.String("username", username), zap.Error(err))
			continue
		}
		ids = append(ids, uuid.FromStringOrNil(res.User.ID))
		names = append(names, username)
	}
	if len(ids) < 2 {
		logger.Info("Demo data needs at least two users; skipping the graph")
		return
	}

	posts := make([]uuid.UUID, len(ids))
	for i, id := range ids {
		p, err := postSvc.CreatePost(ctx, id, postPort.NewPost{Content: "Hello from " + names[i]})
		if err != nil {
			logger.Error("Error creating demo post", zap.String("userID", id.String()), zap.Error(err))
			continue
		}
		posts[i] = uuid.FromStringOrNil(p.ID)
	}

	for i, id := range ids {
		next := (i + 1) % len(ids)
		prev := (i + len(ids) - 1) % len(ids)

		if _, err := followerSvc.ToggleFollow(ctx, id, names[next]); err != nil {
			logger.Error("Error following", zap.String("userID", id.String()), zap.Error(err))
		}
		if posts[prev] != uuid.Nil {
			if _, err := postSvc.ToggleLike(ctx, id, posts[prev]); err != nil {
				logger.Error("Error liking", zap.String("userID", id.String()), zap.Error(err))
			}
		}
		if _, err := chatSvc.SendMessage(ctx, id, ids[next], "hi!"); err != nil {
			logger.Error("Error messaging", zap.String("userID", id.String()), zap.Error(err))
		}
	}

	logger.Info("Demo data created", zap.Int("users", len(ids)), zap.Int("posts", len(posts)))
}
