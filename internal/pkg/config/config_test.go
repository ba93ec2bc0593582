package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
timezone: Europe/Minsk
telegram:
  token: from-file
  operator_id: 542345855
chats:
  - id: -1002079167705
    thread_id: 7340
    name: "A. Mousse Art Bakery"
  - id: -1002936236597
    thread_id: 4
    name: "B. Millionroz.by"
night_window:
  start: "21:55"
  end: "09:05"
cleanup:
  delay: 2m
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, sampleYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.TelegramCfg.Token)
	assert.Equal(t, int64(542345855), cfg.TelegramCfg.OperatorID)
	assert.Len(t, cfg.Chats, 2)
	assert.Equal(t, "21:55", cfg.NightWindow.Start)
	assert.Equal(t, "09:05", cfg.NightWindow.End)
	assert.Equal(t, 2*time.Minute, cfg.Cleanup.Delay)
	assert.Equal(t, 50, cfg.TelegramCfg.MinTextLength)

	chat, ok := cfg.ChatByID(-1002936236597)
	require.True(t, ok)
	assert.Equal(t, 4, chat.ThreadID)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, sampleYAML)
	t.Setenv("BOT_TOKEN", "from-env")
	t.Setenv("UNIQUE_USER_ID", "42")
	t.Setenv("CLEANUP_DELAY", "10s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.TelegramCfg.Token)
	assert.Equal(t, int64(42), cfg.TelegramCfg.OperatorID)
	assert.Equal(t, 10*time.Second, cfg.Cleanup.Delay)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: t
  operator_id: 1
chats:
  - id: -100
    thread_id: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "22:00", cfg.NightWindow.Start)
	assert.Equal(t, "08:00", cfg.NightWindow.End)
	assert.Equal(t, "Europe/Minsk", cfg.Timezone)
	assert.Equal(t, 5*time.Minute, cfg.Cleanup.Delay)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Timezone: "Nowhere/City", Chats: []ChatCfg{{ID: 1}, {ID: 1}}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram token is required")
	assert.Contains(t, err.Error(), "operator id is required")
	assert.Contains(t, err.Error(), "configured twice")
	assert.Contains(t, err.Error(), "invalid timezone")
}
