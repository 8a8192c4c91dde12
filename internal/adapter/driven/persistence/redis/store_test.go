package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/Wyydra/voicebridge/internal/adapter/driven/persistence/redis"
	"github.com/stretchr/testify/assert"
)

func TestStore_Unreachable(t *testing.T) {
	s := redis.NewStore(redis.Options{Addr: "127.0.0.1:1", Timeout: 100 * time.Millisecond})
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := s.Set(ctx, "k", "v")
	assert.Error(t, err)

	_, ok, err := s.Get(ctx, "k")
	assert.Error(t, err)
	assert.False(t, ok)
}
