package cache

import (
	"context"
	"errors"
	"time"

	"github.com/beka-birhanu/mazeflood/flood"
	"github.com/beka-birhanu/mazeflood/service/i"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "mazeflood:solution:"

// RedisSolutionCache stores encoded solutions in Redis with a TTL.
type RedisSolutionCache struct {
	client  *redis.Client
	encoder i.SolutionEncoder
	prefix  string
	ttl     time.Duration
}

var _ i.SolutionCache = &RedisSolutionCache{}

// NewRedisSolutionCache initializes a RedisSolutionCache with the provided Redis client, encoder and TTL.
func NewRedisSolutionCache(client *redis.Client, encoder i.SolutionEncoder, ttlSeconds int) *RedisSolutionCache {
	return &RedisSolutionCache{
		client:  client,
		encoder: encoder,
		prefix:  defaultPrefix,
		ttl:     time.Duration(ttlSeconds) * time.Second,
	}
}

// Get returns the solution stored under key, or ok=false if there is none.
func (c *RedisSolutionCache) Get(ctx context.Context, key string) (*flood.Solution, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	sol, err := c.encoder.UnmarshalSolution(data)
	if err != nil {
		// Drop the corrupt entry so the next solve rewrites it.
		_ = c.client.Del(ctx, c.prefix+key).Err()
		return nil, false, err
	}
	return sol, true, nil
}

// Set stores sol under key.
func (c *RedisSolutionCache) Set(ctx context.Context, key string, sol *flood.Solution) error {
	data, err := c.encoder.MarshalSolution(sol)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+key, data, c.ttl).Err()
}
