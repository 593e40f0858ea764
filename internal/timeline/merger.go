package timeline

import (
	"math"

	"go.uber.org/zap"
)

// MergeGapSeconds is the largest gap between two intervals of the same
// slide that still coalesces them.
const MergeGapSeconds = 1.0

// Merger coalesces adjacent entries that display the same slide into a
// compact timeline. The operation is idempotent.
type Merger struct {
	logger *zap.Logger
}

// NewMerger creates a Merger.
func NewMerger(logger *zap.Logger) *Merger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Merger{logger: logger}
}

// Merge walks the timeline once, left to right. An entry extends the
// accumulator when it references the same slide and starts within
// MergeGapSeconds of the accumulator's end; the accumulator's original
// confidence is retained. Anything else flushes the accumulator and starts
// a new one.
func (m *Merger) Merge(entries []Entry) []Entry {
	if len(entries) == 0 {
		return []Entry{}
	}

	merged := make([]Entry, 0, len(entries))
	acc := entries[0]

	for _, next := range entries[1:] {
		if next.SlideIndex == acc.SlideIndex && math.Abs(next.StartTime-acc.EndTime) < MergeGapSeconds {
			acc.EndTime = next.EndTime
			acc.Duration = acc.EndTime - acc.StartTime
			acc.SpeechText += " " + next.SpeechText
			continue
		}
		merged = append(merged, acc)
		acc = next
	}
	merged = append(merged, acc)

	m.logger.Info("timeline merged",
		zap.Int("entries_in", len(entries)),
		zap.Int("entries_out", len(merged)))

	return merged
}
