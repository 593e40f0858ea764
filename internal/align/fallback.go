package align

import (
	"context"

	"go.uber.org/zap"

	"github.com/eric0324/wisdom-video/internal/corpus"
	"github.com/eric0324/wisdom-video/internal/transcript"
)

const fallbackReason = "proportional time-based assignment"

// FallbackAligner assigns slides to segments purely by elapsed-time
// proportion. It is selected only when no reasoning service is configured,
// never as recovery from a failed guided attempt.
type FallbackAligner struct {
	logger *zap.Logger
}

// NewFallbackAligner creates a FallbackAligner.
func NewFallbackAligner(logger *zap.Logger) *FallbackAligner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackAligner{logger: logger}
}

// Align maps each segment to the slide at the same relative position in the
// deck. Pure function of its inputs: identical transcript and corpus always
// produce an identical candidate sequence.
func (a *FallbackAligner) Align(_ context.Context, t *transcript.Transcript, slides corpus.SlideCorpus) ([]MatchCandidate, error) {
	if len(t.Segments) == 0 || len(slides) == 0 {
		return []MatchCandidate{}, nil
	}

	a.logger.Info("using proportional fallback alignment",
		zap.Int("segments", len(t.Segments)),
		zap.Int("slides", len(slides)))

	candidates := make([]MatchCandidate, 0, len(t.Segments))
	for _, seg := range t.Segments {
		progress := seg.Start / t.Duration
		slideIndex := int(progress * float64(len(slides)))
		if slideIndex > len(slides)-1 {
			slideIndex = len(slides) - 1
		}

		candidates = append(candidates, MatchCandidate{
			SlideIndex:  slideIndex,
			Start:       seg.Start,
			End:         seg.End,
			SegmentText: seg.Text,
			Confidence:  FallbackConfidence,
			Reason:      fallbackReason,
		})
	}

	return candidates, nil
}
