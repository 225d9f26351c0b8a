package db

import (
	"github.com/redis/go-redis/v9"

	"github.com/printo/RiderPro-sub006/internal/config"
)

// ConnectRedis returns nil when no address is configured; live streaming
// then runs in single-instance mode without cross-node fanout.
func ConnectRedis(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}
