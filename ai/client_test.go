package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatbot-catalog/backend/internal/attachment"
	"chatbot-catalog/backend/internal/models"
	"chatbot-catalog/backend/internal/prompt"
	"chatbot-catalog/backend/pkg/config"
	"chatbot-catalog/backend/pkg/logger"
)

func stubClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.LLM.BaseURL = server.URL
	cfg.LLM.APIKey = "test-key"
	cfg.LLM.Model = "gpt-4o-mini"
	cfg.LLM.Temperature = 0.3
	cfg.LLM.MaxTokens = 3000

	return NewClient(cfg, logger.New(logger.Config{Level: "error"}))
}

func completionBody(content string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
			},
		},
	}
}

func TestCompleteReturnsContent(t *testing.T) {
	var captured map[string]any
	client := stubClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionBody("Aqui está o documento."))
	})

	reply, err := client.Complete(context.Background(), []prompt.Message{
		{Role: "system", Text: "PERSONA: teste"},
		{Role: models.RoleUser, Text: "escreva um ofício"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Aqui está o documento.", reply)
	assert.Equal(t, "gpt-4o-mini", captured["model"])
	assert.InDelta(t, 0.3, captured["temperature"].(float64), 0.001)
	assert.EqualValues(t, 3000, captured["max_tokens"])

	messages := captured["messages"].([]any)
	require.Len(t, messages, 2)
	first := messages[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
}

func TestCompleteEmptyChoices(t *testing.T) {
	client := stubClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"choices": []any{},
		})
	})

	_, err := client.Complete(context.Background(), []prompt.Message{
		{Role: models.RoleUser, Text: "oi"},
	})

	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestCompleteUpstreamError(t *testing.T) {
	client := stubClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	})

	_, err := client.Complete(context.Background(), []prompt.Message{
		{Role: models.RoleUser, Text: "oi"},
	})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyCompletion)
}

func TestToMessageParamsImageParts(t *testing.T) {
	params := toMessageParams([]prompt.Message{
		{Role: "system", Text: "config"},
		{Role: models.RoleAssistant, Text: "resposta anterior"},
		{
			Role: models.RoleUser,
			Parts: []attachment.Part{
				{Type: "text", Text: "analise"},
				{Type: "image_url", ImageURL: "data:image/png;base64,AAAA"},
			},
		},
	})

	require.Len(t, params, 3)
}
