package service_test

import (
	"context"
	"testing"

	"github.com/Wyydra/voicebridge/internal/core/domain"
	"github.com/Wyydra/voicebridge/internal/core/port/mocks"
	"github.com/Wyydra/voicebridge/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestKeyValueService_Create(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.Store)
	store.On("Set", ctx, "k", "v").Return("OK", nil)

	got, err := service.NewKeyValueService(store).Create(ctx, "k", "v")

	require.NoError(t, err)
	assert.Equal(t, "OK", got)
	store.AssertExpectations(t)
}

func TestKeyValueService_Find(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.Store)
	store.On("Get", ctx, "k").Return("v", true, nil)
	store.On("Get", ctx, "missing").Return("", false, nil)

	svc := service.NewKeyValueService(store)

	got, err := svc.Find(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "v", *got)

	got, err = svc.Find(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestKeyValueService_Remove(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.Store)
	store.On("Delete", ctx, "k").Return(int64(1), nil)

	n, err := service.NewKeyValueService(store).Remove(ctx, "k")

	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestKeyValueService_EmptyKey(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.Store)
	svc := service.NewKeyValueService(store)

	_, err := svc.Create(ctx, "", "v")
	assert.ErrorIs(t, err, domain.ErrKeyRequired)
	_, err = svc.Find(ctx, "")
	assert.ErrorIs(t, err, domain.ErrKeyRequired)
	_, err = svc.Update(ctx, "", "v")
	assert.ErrorIs(t, err, domain.ErrKeyRequired)
	_, err = svc.Remove(ctx, "")
	assert.ErrorIs(t, err, domain.ErrKeyRequired)

	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}
