// Package redis
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type ClientOptions struct {
	Address  string
	Username string
	Password string
	DB       int
}

func Init(ctx context.Context, opts *ClientOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}
