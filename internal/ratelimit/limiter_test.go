package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestWindowKey(t *testing.T) {
	assert.Equal(t, "rate_limit:login:10.0.0.1", windowKey("10.0.0.1", "login"))
	assert.NotEqual(t, windowKey("10.0.0.1", "login"), windowKey("10.0.0.1", "register"))
}

func TestAllow_RedisUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })

	l := NewLimiter(client, 10, time.Minute)

	ok, err := l.Allow(context.Background(), "10.0.0.1", "login")
	assert.Error(t, err)
	assert.False(t, ok)
}
