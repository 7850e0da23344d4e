package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredKeys(t *testing.T) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("GOOGLE_API_KEY", "g-test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredKeys(t)
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("DB_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8100", cfg.ListenAddr)
	assert.Equal(t, "faisal.db", cfg.DBPath)
	assert.Equal(t, "sk-test", cfg.OpenAIKey)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredKeys(t)
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("DB_PATH", "/tmp/chats.db")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:11434/v1/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/tmp/chats.db", cfg.DBPath)
	assert.Equal(t, "http://localhost:11434/v1/", cfg.OpenAIBaseURL)
}

func TestLoad_MissingKeys(t *testing.T) {
	setRequiredKeys(t)
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}
