package utils

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"weblog/config"
)

// NewRedis builds a Redis client from config. The server is pinged once to
// surface connectivity problems early, but a failed ping is not fatal: the
// cache and the token blacklist degrade gracefully without Redis.
func NewRedis(cfg *config.AppConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil && Sugar != nil {
		Sugar.Warnf("redis unavailable, caching disabled: %v", err)
	}
	return client
}
