// Package align produces slide match candidates from a transcript and a
// slide corpus, either guided by a reasoning service or through a
// deterministic proportional fallback.
package align

import (
	"context"
	"fmt"

	"github.com/eric0324/wisdom-video/internal/corpus"
	"github.com/eric0324/wisdom-video/internal/transcript"
)

const (
	// GuidedConfidence is attached to every candidate produced by the
	// reasoning service.
	GuidedConfidence = 0.9
	// FallbackConfidence is attached to every candidate produced by the
	// proportional strategy.
	FallbackConfidence = 0.6
)

// MatchCandidate proposes displaying one slide over a time range of the
// narration. Field names match the persisted matching-report schema.
type MatchCandidate struct {
	SlideIndex  int     `json:"recommended_slide"`
	Start       float64 `json:"segment_start"`
	End         float64 `json:"segment_end"`
	SegmentText string  `json:"segment_text"`
	Confidence  float64 `json:"confidence"`
	Reason      string  `json:"reason"`
}

// Validate checks the candidate's time range and confidence. Slide index
// range checking happens against the corpus in the timeline builder.
func (m *MatchCandidate) Validate() error {
	if m.SlideIndex < 0 {
		return fmt.Errorf("recommended_slide cannot be negative")
	}

	if m.Start < 0 {
		return fmt.Errorf("segment_start cannot be negative")
	}

	if m.End <= m.Start {
		return fmt.Errorf("segment_end must be greater than segment_start")
	}

	if m.Confidence < 0.0 || m.Confidence > 1.0 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0")
	}

	return nil
}

// Aligner produces an ordered sequence of match candidates for a transcript
// and slide corpus.
type Aligner interface {
	Align(ctx context.Context, t *transcript.Transcript, slides corpus.SlideCorpus) ([]MatchCandidate, error)
}
