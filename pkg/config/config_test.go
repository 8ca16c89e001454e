package config

import (
	"context"
	"testing"

	"chatbot-catalog/backend/pkg/secrets"

	"github.com/stretchr/testify/assert"
)

type mapManager struct {
	values map[string]string
}

func (m *mapManager) GetSecret(_ context.Context, key string) (string, error) {
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", secrets.ErrSecretNotFound
}

func (m *mapManager) GetSecretWithDefault(ctx context.Context, key, defaultValue string) string {
	if v, err := m.GetSecret(ctx, key); err == nil {
		return v
	}
	return defaultValue
}

func TestGetSecretStringPrefersManager(t *testing.T) {
	secrets.SetManager(&mapManager{values: map[string]string{"jwt_secret": "from-vault"}})
	defer secrets.SetManager(nil)

	t.Setenv("JWT_SECRET", "from-env")

	assert.Equal(t, "from-vault", getSecretString("jwt_secret", "JWT_SECRET", "fallback"))
}

func TestGetSecretStringFallsBackToEnv(t *testing.T) {
	secrets.SetManager(&mapManager{values: map[string]string{}})
	defer secrets.SetManager(nil)

	t.Setenv("OPENAI_API_KEY", "sk-env")

	assert.Equal(t, "sk-env", getSecretString("openai_api_key", "OPENAI_API_KEY", ""))
}

func TestGetSecretStringDefaultWithoutManager(t *testing.T) {
	secrets.SetManager(nil)

	assert.Equal(t, "fallback", getSecretString("missing_key", "CONFIG_TEST_UNSET", "fallback"))
}
