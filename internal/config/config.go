package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Configuration provides type-safe access to pipeline settings. It is
// constructed once at startup and passed explicitly into the pipeline; no
// component reads process-wide state.
type Configuration struct {
	viper *viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("reasoning.model", "gemini-2.5-flash")
	v.SetDefault("reasoning.slide_text_limit", 200)
	v.SetDefault("tools.whisper", "whisper-cli")
	v.SetDefault("tools.ffmpeg", "ffmpeg")
	v.SetDefault("tools.ffprobe", "ffprobe")
	v.SetDefault("tools.pdftoppm", "pdftoppm")
	v.SetDefault("tools.pdftotext", "pdftotext")
	v.SetDefault("tools.pdfinfo", "pdfinfo")
	v.SetDefault("whisper.model_path", "./models/ggml-base.bin")
	v.SetDefault("whisper.language", "auto")
	v.SetDefault("video.fps", 25)
	v.SetDefault("video.height", 720)
	v.SetDefault("paths.workdir", "./work")
	v.SetDefault("paths.logs_dir", "./logs")
	v.SetDefault("guard.memory_limit_mb", 0)
	v.SetDefault("watch.input_dir", "./input")
	v.SetDefault("watch.output_dir", "./output_videos")
}

// NewConfiguration creates a Configuration instance with default settings.
func NewConfiguration() *Configuration {
	v := viper.New()
	setDefaults(v)
	return &Configuration{viper: v}
}

// NewConfigurationFromFile creates a Configuration instance from a config file.
func NewConfigurationFromFile(configFile string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	return &Configuration{viper: v}, nil
}

// NewConfigurationFromEnv creates a Configuration instance that reads from
// environment variables.
func NewConfigurationFromEnv() (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("WISDOM")
	v.AutomaticEnv()

	v.BindEnv("reasoning.api_key", "GEMINI_API_KEY")
	v.BindEnv("reasoning.model", "WISDOM_REASONING_MODEL")
	v.BindEnv("whisper.model_path", "WISDOM_WHISPER_MODEL_PATH")
	v.BindEnv("whisper.language", "WISDOM_WHISPER_LANGUAGE")
	v.BindEnv("video.fps", "WISDOM_VIDEO_FPS")
	v.BindEnv("guard.memory_limit_mb", "WISDOM_MEMORY_LIMIT_MB")

	return &Configuration{viper: v}, nil
}

// GetReasoningAPIKey returns the reasoning-service API key, empty when the
// guided alignment strategy is not configured.
func (c *Configuration) GetReasoningAPIKey() string {
	return c.viper.GetString("reasoning.api_key")
}

// GetReasoningModel returns the reasoning-service model identifier.
func (c *Configuration) GetReasoningModel() string {
	return c.viper.GetString("reasoning.model")
}

// GetSlideTextLimit returns the per-slide character cap used when condensing
// slide text for the reasoning service.
func (c *Configuration) GetSlideTextLimit() int {
	return c.viper.GetInt("reasoning.slide_text_limit")
}

// GetWhisperBinaryPath returns the whisper-cli binary path.
func (c *Configuration) GetWhisperBinaryPath() string {
	return c.viper.GetString("tools.whisper")
}

// GetWhisperModelPath returns the whisper model path.
func (c *Configuration) GetWhisperModelPath() string {
	return c.viper.GetString("whisper.model_path")
}

// GetWhisperLanguage returns the forced transcription language.
func (c *Configuration) GetWhisperLanguage() string {
	return c.viper.GetString("whisper.language")
}

// GetFFmpegPath returns the ffmpeg binary path.
func (c *Configuration) GetFFmpegPath() string {
	return c.viper.GetString("tools.ffmpeg")
}

// GetFFprobePath returns the ffprobe binary path.
func (c *Configuration) GetFFprobePath() string {
	return c.viper.GetString("tools.ffprobe")
}

// GetPdftoppmPath returns the pdftoppm binary path.
func (c *Configuration) GetPdftoppmPath() string {
	return c.viper.GetString("tools.pdftoppm")
}

// GetPdftotextPath returns the pdftotext binary path.
func (c *Configuration) GetPdftotextPath() string {
	return c.viper.GetString("tools.pdftotext")
}

// GetPdfinfoPath returns the pdfinfo binary path.
func (c *Configuration) GetPdfinfoPath() string {
	return c.viper.GetString("tools.pdfinfo")
}

// GetVideoFPS returns the output video frame rate.
func (c *Configuration) GetVideoFPS() int {
	return c.viper.GetInt("video.fps")
}

// GetVideoHeight returns the output video height in pixels.
func (c *Configuration) GetVideoHeight() int {
	return c.viper.GetInt("video.height")
}

// GetWorkDir returns the scratch directory for intermediate artifacts.
func (c *Configuration) GetWorkDir() string {
	return c.viper.GetString("paths.workdir")
}

// GetLogsDir returns the directory matching reports are written to.
func (c *Configuration) GetLogsDir() string {
	return c.viper.GetString("paths.logs_dir")
}

// GetMemoryLimitMB returns the resource-guard memory limit in megabytes.
// Zero disables the guard.
func (c *Configuration) GetMemoryLimitMB() uint64 {
	return c.viper.GetUint64("guard.memory_limit_mb")
}

// GetWatchInputDir returns the drop-folder input directory.
func (c *Configuration) GetWatchInputDir() string {
	return c.viper.GetString("watch.input_dir")
}

// GetWatchOutputDir returns the drop-folder output directory.
func (c *Configuration) GetWatchOutputDir() string {
	return c.viper.GetString("watch.output_dir")
}
