package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/eric0324/wisdom-video/pkg/executor"
)

// Ingester produces a validated Transcript from a narration audio file.
type Ingester interface {
	Ingest(ctx context.Context, audioPath string) (*Transcript, error)
}

// AudioExtensions lists the audio formats accepted for ingestion.
var AudioExtensions = []string{".mp3", ".wav", ".m4a", ".flac"}

// IsSupportedAudio reports whether path carries a supported audio extension.
func IsSupportedAudio(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range AudioExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// WhisperIngester runs whisper-cli as an external engine and parses its JSON
// output into a Transcript. Total duration is probed with ffprobe because
// the whisper output only covers the transcribed span.
type WhisperIngester struct {
	whisperPath string
	ffprobePath string
	modelPath   string
	language    string
	exec        executor.Executor
	logger      *zap.Logger
}

// NewWhisperIngester creates a WhisperIngester.
func NewWhisperIngester(whisperPath, ffprobePath, modelPath, language string, exec executor.Executor, logger *zap.Logger) *WhisperIngester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhisperIngester{
		whisperPath: whisperPath,
		ffprobePath: ffprobePath,
		modelPath:   modelPath,
		language:    language,
		exec:        exec,
		logger:      logger,
	}
}

// whisperOutput mirrors the whisper.cpp -oj JSON document.
type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int `json:"from"`
			To   int `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Ingest transcribes the audio file and returns the ordered segment sequence
// with its total duration.
func (w *WhisperIngester) Ingest(ctx context.Context, audioPath string) (*Transcript, error) {
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))

	w.logger.Info("transcribing narration audio",
		zap.String("audio", audioPath),
		zap.String("model", w.modelPath))

	args := []string{
		"-m", w.modelPath,
		"-f", audioPath,
		"-oj",
		"-l", w.language,
		"--output-file", outputPrefix,
	}
	if _, err := w.exec.Execute(ctx, w.whisperPath, args...); err != nil {
		return nil, fmt.Errorf("whisper transcribe: %w", err)
	}

	jsonPath := outputPrefix + ".json"
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read whisper output %s: %w", jsonPath, err)
	}

	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse whisper output %s: %w", jsonPath, err)
	}

	transcript := &Transcript{}
	var fullText []string
	for _, seg := range out.Transcription {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		transcript.Segments = append(transcript.Segments, SpeechSegment{
			Start: float64(seg.Offsets.From) / 1000.0,
			End:   float64(seg.Offsets.To) / 1000.0,
			Text:  text,
		})
		fullText = append(fullText, text)
	}
	transcript.FullText = strings.Join(fullText, " ")

	duration, err := w.probeDuration(ctx, audioPath)
	if err != nil {
		w.logger.Warn("ffprobe duration failed, using last segment end", zap.Error(err))
		if n := len(transcript.Segments); n > 0 {
			duration = transcript.Segments[n-1].End
		}
	}
	if n := len(transcript.Segments); n > 0 && duration < transcript.Segments[n-1].End {
		duration = transcript.Segments[n-1].End
	}
	transcript.Duration = duration

	if err := transcript.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transcript: %w", err)
	}

	w.logger.Info("transcription complete",
		zap.Int("segments", len(transcript.Segments)),
		zap.Float64("duration_seconds", transcript.Duration))

	return transcript, nil
}

func (w *WhisperIngester) probeDuration(ctx context.Context, audioPath string) (float64, error) {
	out, err := w.exec.Execute(ctx, w.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		audioPath)
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", strings.TrimSpace(out), err)
	}
	return duration, nil
}
