package transcript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	whisperJSON    string
	probeOutput    string
	probeErr       error
	executedCalls  [][]string
	failingBinary  string
	failingMessage string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.executedCalls = append(f.executedCalls, append([]string{name}, args...))

	if name == f.failingBinary {
		return "", fmt.Errorf("%s", f.failingMessage)
	}

	switch name {
	case "whisper-cli":
		// Write the JSON document whisper-cli would have produced.
		var prefix string
		for i, a := range args {
			if a == "--output-file" && i+1 < len(args) {
				prefix = args[i+1]
			}
		}
		if err := os.WriteFile(prefix+".json", []byte(f.whisperJSON), 0644); err != nil {
			return "", err
		}
		return "", nil
	case "ffprobe":
		return f.probeOutput, f.probeErr
	}
	return "", nil
}

func TestWhisperIngester_Ingest(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "lecture.mp3")
	require.NoError(t, os.WriteFile(audioPath, []byte("audio"), 0644))

	exec := &fakeExecutor{
		whisperJSON: `{
			"transcription": [
				{"offsets": {"from": 0, "to": 30000}, "text": " intro"},
				{"offsets": {"from": 30000, "to": 70000}, "text": "topicA "},
				{"offsets": {"from": 70000, "to": 95000}, "text": "  "}
			]
		}`,
		probeOutput: "100.000000\n",
	}

	ingester := NewWhisperIngester("whisper-cli", "ffprobe", "model.bin", "en", exec, nil)
	tr, err := ingester.Ingest(context.Background(), audioPath)

	require.NoError(t, err)
	require.Len(t, tr.Segments, 2) // whitespace-only segment is skipped
	assert.Equal(t, SpeechSegment{Start: 0, End: 30, Text: "intro"}, tr.Segments[0])
	assert.Equal(t, SpeechSegment{Start: 30, End: 70, Text: "topicA"}, tr.Segments[1])
	assert.Equal(t, "intro topicA", tr.FullText)
	assert.Equal(t, 100.0, tr.Duration)
}

func TestWhisperIngester_ProbeFailureFallsBackToLastSegment(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "lecture.wav")
	require.NoError(t, os.WriteFile(audioPath, []byte("audio"), 0644))

	exec := &fakeExecutor{
		whisperJSON:    `{"transcription": [{"offsets": {"from": 0, "to": 42500}, "text": "only segment"}]}`,
		failingBinary:  "ffprobe",
		failingMessage: "ffprobe not installed",
	}

	ingester := NewWhisperIngester("whisper-cli", "ffprobe", "model.bin", "en", exec, nil)
	tr, err := ingester.Ingest(context.Background(), audioPath)

	require.NoError(t, err)
	assert.Equal(t, 42.5, tr.Duration)
}

func TestWhisperIngester_WhisperFailure(t *testing.T) {
	exec := &fakeExecutor{
		failingBinary:  "whisper-cli",
		failingMessage: "model file not found",
	}

	ingester := NewWhisperIngester("whisper-cli", "ffprobe", "missing.bin", "en", exec, nil)
	_, err := ingester.Ingest(context.Background(), "/tmp/whatever.mp3")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "whisper transcribe")
}

func TestIsSupportedAudio(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"lecture.mp3", true},
		{"lecture.wav", true},
		{"lecture.m4a", true},
		{"lecture.flac", true},
		{"/some/dir/Lecture.MP3", true},
		{"lecture.ogg", false},
		{"lecture.mp4", false},
		{"lecture", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsSupportedAudio(tt.path))
		})
	}
}
