// Package compositor renders the merged timeline and narration audio into
// the final video through ffmpeg.
package compositor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/eric0324/wisdom-video/internal/timeline"
	"github.com/eric0324/wisdom-video/pkg/executor"
)

// MinDisplaySeconds is the shortest time any slide stays on screen. It is
// enforced here, at the hand-off to the encoder, not during timeline
// construction.
const MinDisplaySeconds = 1.0

// Composer renders a timeline over an audio track into a video file.
type Composer interface {
	Compose(ctx context.Context, audioPath string, entries []timeline.Entry, outputPath string) error
}

// FFmpegComposer drives the ffmpeg binary. Each merged entry becomes one
// looped still-image input; the inputs are scaled to a common height and
// concatenated over the narration audio.
type FFmpegComposer struct {
	ffmpegPath string
	fps        int
	height     int
	exec       executor.Executor
	logger     *zap.Logger
}

// NewFFmpegComposer creates an FFmpegComposer.
func NewFFmpegComposer(ffmpegPath string, fps, height int, exec executor.Executor, logger *zap.Logger) *FFmpegComposer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FFmpegComposer{
		ffmpegPath: ffmpegPath,
		fps:        fps,
		height:     height,
		exec:       exec,
		logger:     logger,
	}
}

// Compose renders the video. Entries must already be merged and ordered.
func (c *FFmpegComposer) Compose(ctx context.Context, audioPath string, entries []timeline.Entry, outputPath string) error {
	if len(entries) == 0 {
		return fmt.Errorf("cannot compose video from an empty timeline")
	}

	args := c.buildArgs(audioPath, entries, outputPath)

	c.logger.Info("composing video",
		zap.Int("segments", len(entries)),
		zap.String("output", outputPath))

	if _, err := c.exec.Execute(ctx, c.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg compose: %w", err)
	}

	c.logger.Info("video composition complete", zap.String("output", outputPath))
	return nil
}

func (c *FFmpegComposer) buildArgs(audioPath string, entries []timeline.Entry, outputPath string) []string {
	var args []string

	for _, e := range entries {
		duration := e.Duration
		if duration < MinDisplaySeconds {
			duration = MinDisplaySeconds
		}
		args = append(args,
			"-loop", "1",
			"-t", fmt.Sprintf("%.3f", duration),
			"-i", e.SlidePath,
		)
	}
	args = append(args, "-i", audioPath)

	var filter strings.Builder
	for i := range entries {
		fmt.Fprintf(&filter, "[%d:v]scale=-2:%d,setsar=1[v%d];", i, c.height, i)
	}
	for i := range entries {
		fmt.Fprintf(&filter, "[v%d]", i)
	}
	fmt.Fprintf(&filter, "concat=n=%d:v=1:a=0[v]", len(entries))

	args = append(args,
		"-filter_complex", filter.String(),
		"-map", "[v]",
		"-map", fmt.Sprintf("%d:a", len(entries)),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-r", fmt.Sprintf("%d", c.fps),
		"-c:a", "aac",
		"-shortest",
		"-y", outputPath,
	)

	return args
}
