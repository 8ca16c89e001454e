package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatbot-catalog/backend/internal/models"
	"chatbot-catalog/backend/pkg/cache"
)

func TestChatbotListServedFromCache(t *testing.T) {
	store := cache.NewMemory(10, time.Minute)
	cached := []models.Chatbot{{ID: 1, Name: "SAD VIRTUAL", Persona: "assistente"}}
	data, err := json.Marshal(cached)
	require.NoError(t, err)
	require.NoError(t, store.Set("chatbots:all", data, time.Minute))

	// nil db: a cache hit must not touch the database at all
	svc := NewChatbotService(nil, store, time.Minute)

	got, err := svc.List()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "SAD VIRTUAL", got[0].Name)
}
