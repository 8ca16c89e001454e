package di

import (
	"testing"
	"time"

	"chatbot-catalog/backend/pkg/config"
	"chatbot-catalog/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCacheStoreDisabled(t *testing.T) {
	cfg := &config.Config{}
	cfg.Cache.Enabled = false

	store := newCacheStore(cfg, logger.New(logger.Config{Level: "error"}))

	assert.Nil(t, store, "disabled cache must not hold entries")
}

func TestNewCacheStoreMemory(t *testing.T) {
	cfg := &config.Config{}
	cfg.Cache.Enabled = true
	cfg.Cache.Backend = "memory"
	cfg.Cache.MaxSize = 10

	store := newCacheStore(cfg, logger.New(logger.Config{Level: "error"}))
	require.NotNil(t, store)

	require.NoError(t, store.Set("k", []byte("v"), time.Minute))
	got, ok := store.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}
