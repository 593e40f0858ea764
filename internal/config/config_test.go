package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfiguration_Defaults(t *testing.T) {
	cfg := NewConfiguration()

	assert.Equal(t, "gemini-2.5-flash", cfg.GetReasoningModel())
	assert.Equal(t, 200, cfg.GetSlideTextLimit())
	assert.Equal(t, "whisper-cli", cfg.GetWhisperBinaryPath())
	assert.Equal(t, "ffmpeg", cfg.GetFFmpegPath())
	assert.Equal(t, 25, cfg.GetVideoFPS())
	assert.Equal(t, 720, cfg.GetVideoHeight())
	assert.Equal(t, uint64(0), cfg.GetMemoryLimitMB())
	assert.Empty(t, cfg.GetReasoningAPIKey())
}

func TestNewConfigurationFromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
reasoning:
  api_key: test-key
  model: gemini-2.0-pro
  slide_text_limit: 300
video:
  fps: 30
guard:
  memory_limit_mb: 2048
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := NewConfigurationFromFile(configPath)

	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.GetReasoningAPIKey())
	assert.Equal(t, "gemini-2.0-pro", cfg.GetReasoningModel())
	assert.Equal(t, 300, cfg.GetSlideTextLimit())
	assert.Equal(t, 30, cfg.GetVideoFPS())
	assert.Equal(t, uint64(2048), cfg.GetMemoryLimitMB())
	// Defaults survive partial config files.
	assert.Equal(t, 720, cfg.GetVideoHeight())
}

func TestNewConfigurationFromFile_MissingFile(t *testing.T) {
	_, err := NewConfigurationFromFile("/nonexistent/config.yaml")

	assert.Error(t, err)
}

func TestNewConfigurationFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("WISDOM_VIDEO_FPS", "60")

	cfg, err := NewConfigurationFromEnv()

	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.GetReasoningAPIKey())
	assert.Equal(t, 60, cfg.GetVideoFPS())
	assert.Equal(t, "auto", cfg.GetWhisperLanguage())
}
