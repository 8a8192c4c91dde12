package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Options struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
}

// implements port.KeyValueStore
type Store struct {
	rdb *redis.Client
}

func NewStore(o Options) *Store {
	return &Store{
		rdb: redis.NewClient(&redis.Options{
			Addr:         o.Addr,
			Password:     o.Password,
			DB:           o.DB,
			DialTimeout:  o.Timeout,
			ReadTimeout:  o.Timeout,
			WriteTimeout: o.Timeout,
		}),
	}
}

func (s *Store) Set(ctx context.Context, key, value string) (string, error) {
	res, err := s.rdb.Set(ctx, key, value, 0).Result()
	if err != nil {
		return "", fmt.Errorf("redis set %s: %w", key, err)
	}
	return res, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) Delete(ctx context.Context, key string) (int64, error) {
	n, err := s.rdb.Del(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis del %s: %w", key, err)
	}
	return n, nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
