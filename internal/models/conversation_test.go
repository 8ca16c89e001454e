package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageListValueNil(t *testing.T) {
	var list MessageList

	value, err := list.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), value)
}

func TestMessageListScanBytes(t *testing.T) {
	raw := `[{"id":"m1","role":"user","content":"olá","timestamp":"2025-01-02T15:04:05Z"}]`

	var list MessageList
	require.NoError(t, list.Scan([]byte(raw)))

	require.Len(t, list, 1)
	assert.Equal(t, "m1", list[0].ID)
	assert.Equal(t, RoleUser, list[0].Role)
	assert.Equal(t, "olá", list[0].Content)
	assert.Equal(t, time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC), list[0].Timestamp)
}

func TestMessageListScanString(t *testing.T) {
	var list MessageList
	require.NoError(t, list.Scan(`[{"id":"m1","role":"assistant","content":"oi"}]`))
	require.Len(t, list, 1)
	assert.Equal(t, RoleAssistant, list[0].Role)
}

func TestMessageListScanNil(t *testing.T) {
	var list MessageList
	require.NoError(t, list.Scan(nil))
	assert.Empty(t, list)
}

func TestMessageListScanUnsupported(t *testing.T) {
	var list MessageList
	assert.Error(t, list.Scan(42))
}

func TestValidateMessage(t *testing.T) {
	assert.NoError(t, ValidateMessage(RoleUser, "olá"))
	assert.NoError(t, ValidateMessage(RoleAssistant, "oi"))
	assert.Error(t, ValidateMessage("system", "conteúdo"))
	assert.Error(t, ValidateMessage(RoleUser, ""))
}
