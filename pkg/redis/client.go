package redis

import (
	"github.com/redis/go-redis/v9"

	"github.com/dsgov-acme/devstream-notification-service/internal/config"
)

// NewClient builds the redis client used for delivery attempt tracking.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
