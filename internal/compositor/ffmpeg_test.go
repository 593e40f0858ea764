package compositor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eric0324/wisdom-video/internal/timeline"
)

type recordingExecutor struct {
	name string
	args []string
	err  error
}

func (r *recordingExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	r.name = name
	r.args = args
	return "", r.err
}

func testEntries() []timeline.Entry {
	return []timeline.Entry{
		{StartTime: 0, EndTime: 70, Duration: 70, SlideIndex: 0, SlidePath: "/s/a.png", SlideName: "a.png", Confidence: 0.9},
		{StartTime: 70, EndTime: 70.4, Duration: 0.4, SlideIndex: 1, SlidePath: "/s/b.png", SlideName: "b.png", Confidence: 0.9},
	}
}

func TestFFmpegComposer_BuildsExpectedCommand(t *testing.T) {
	exec := &recordingExecutor{}
	composer := NewFFmpegComposer("ffmpeg", 25, 720, exec, nil)

	err := composer.Compose(context.Background(), "audio.mp3", testEntries(), "out.mp4")

	require.NoError(t, err)
	assert.Equal(t, "ffmpeg", exec.name)

	joined := ""
	for _, a := range exec.args {
		joined += a + " "
	}
	assert.Contains(t, joined, "-i /s/a.png")
	assert.Contains(t, joined, "-i /s/b.png")
	assert.Contains(t, joined, "-i audio.mp3")
	assert.Contains(t, joined, "concat=n=2:v=1:a=0[v]")
	assert.Contains(t, joined, "scale=-2:720")
	assert.Contains(t, joined, "-map [v]")
	assert.Contains(t, joined, "-map 2:a")
	assert.Contains(t, joined, "-shortest")
	assert.Contains(t, joined, "-y out.mp4")
}

func TestFFmpegComposer_EnforcesMinimumDisplayDuration(t *testing.T) {
	exec := &recordingExecutor{}
	composer := NewFFmpegComposer("ffmpeg", 25, 720, exec, nil)

	require.NoError(t, composer.Compose(context.Background(), "audio.mp3", testEntries(), "out.mp4"))

	// The 0.4s entry is stretched to the 1s floor; the 70s entry is untouched.
	var durations []string
	for i, a := range exec.args {
		if a == "-t" && i+1 < len(exec.args) {
			durations = append(durations, exec.args[i+1])
		}
	}
	require.Equal(t, []string{"70.000", "1.000"}, durations)
}

func TestFFmpegComposer_EmptyTimeline(t *testing.T) {
	composer := NewFFmpegComposer("ffmpeg", 25, 720, &recordingExecutor{}, nil)

	err := composer.Compose(context.Background(), "audio.mp3", nil, "out.mp4")

	assert.Error(t, err)
}

func TestFFmpegComposer_FFmpegFailurePropagates(t *testing.T) {
	exec := &recordingExecutor{err: errors.New("encoder not found")}
	composer := NewFFmpegComposer("ffmpeg", 25, 720, exec, nil)

	err := composer.Compose(context.Background(), "audio.mp3", testEntries(), "out.mp4")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ffmpeg compose")
}
