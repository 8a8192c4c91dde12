package service

import (
	"context"

	"github.com/Wyydra/voicebridge/internal/core/domain"
	"github.com/Wyydra/voicebridge/internal/core/port"
	"github.com/rs/zerolog/log"
)

type KeyValueService struct {
	store port.KeyValueStore
}

func NewKeyValueService(store port.KeyValueStore) *KeyValueService {
	return &KeyValueService{
		store: store,
	}
}

func (s *KeyValueService) Create(ctx context.Context, key, value string) (string, error) {
	if key == "" {
		return "", domain.ErrKeyRequired
	}
	log.Info().Str("key", key).Msg("Create key")
	return s.store.Set(ctx, key, value)
}

// Find returns nil when the key does not exist.
func (s *KeyValueService) Find(ctx context.Context, key string) (*string, error) {
	if key == "" {
		return nil, domain.ErrKeyRequired
	}
	v, ok, err := s.store.Get(ctx, key)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

func (s *KeyValueService) Update(ctx context.Context, key, value string) (string, error) {
	if key == "" {
		return "", domain.ErrKeyRequired
	}
	log.Info().Str("key", key).Msg("Update key")
	return s.store.Set(ctx, key, value)
}

func (s *KeyValueService) Remove(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, domain.ErrKeyRequired
	}
	log.Info().Str("key", key).Msg("Remove key")
	return s.store.Delete(ctx, key)
}
