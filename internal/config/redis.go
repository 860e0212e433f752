package config

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisClient is the shared Redis client opened by InitRedis.
var RedisClient *redis.Client

// InitRedis connects to Redis and verifies the connection with PING.
func InitRedis(s *Settings) *redis.Client {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     s.RedisAddr,
		Password: s.RedisPassword,
		DB:       s.RedisDB,
	})

	pong, err := RedisClient.Ping(context.Background()).Result()
	if err != nil {
		Logger.Fatal("Error connecting to Redis", zap.String("addr", s.RedisAddr), zap.Error(err))
	}
	Logger.Info("Connected to Redis", zap.String("addr", s.RedisAddr), zap.String("ping", pong))
	return RedisClient
}
