package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultHotKey is the set key holding the hot watchlist.
const DefaultHotKey = "hot_watchlist"

// Client wraps goredis.Client for dependency injection.
type Client struct {
	*goredis.Client
}

// NewClient creates a new Redis client from a redis:// or rediss:// URL.
func NewClient(ctx context.Context, url string) (*Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := goredis.NewClient(opts)

	// Verify connection
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Client{Client: rdb}, nil
}

// Close closes the client.
func (c *Client) Close() error {
	return c.Client.Close()
}
