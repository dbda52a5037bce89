package database

import (
	"context"
	"fmt"
	"time"

	"pizza-service/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to the revocation cache. Callers treat an error as "run without cache".
func InitRedis(ctx context.Context, config utils.RevocationConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", config.RedisAddr, err)
	}

	return client, nil
}
