package app

import (
	"context"

	"github.com/GrigstonJC/boardgame-app/internal/config"
	"github.com/GrigstonJC/boardgame-app/internal/logger"
	"github.com/GrigstonJC/boardgame-app/internal/redis"
	"github.com/GrigstonJC/boardgame-app/internal/session"
)

// setupStore picks the credential backend: Redis when REDIS_ADDR is set,
// otherwise the local credentials file.
func setupStore(ctx context.Context, cfg config.Config) (session.Store, func() error, error) {

	if cfg.RedisAddr != "" {
		redisClient, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, nil, err
		}

		logger.Info("credential store ready", map[string]any{
			"backend": "redis",
			"addr":    cfg.RedisAddr,
		})

		return session.NewRedisStore(redisClient.Client), redisClient.Close, nil
	}

	logger.Info("credential store ready", map[string]any{
		"backend": "file",
		"path":    cfg.CredentialsFile,
	})

	return session.NewFileStore(cfg.CredentialsFile), nil, nil
}
