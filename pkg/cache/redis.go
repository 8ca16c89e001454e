package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a Redis server, for deployments running more
// than one API instance.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis-backed cache store
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // no password by default
		DB:       0,  // use default DB
	})
	return &Redis{client: client}
}

// Ping checks connectivity to the Redis server
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Set stores a value with the given TTL
func (r *Redis) Set(key string, value []byte, ttl time.Duration) error {
	return r.client.Set(context.Background(), key, value, ttl).Err()
}

// Get retrieves a value; the second return is false on miss
func (r *Redis) Get(key string) ([]byte, bool) {
	val, err := r.client.Get(context.Background(), key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

// Delete removes a key
func (r *Redis) Delete(key string) error {
	return r.client.Del(context.Background(), key).Err()
}
