package timeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/eric0324/wisdom-video/internal/align"
	"github.com/eric0324/wisdom-video/internal/corpus"
	"github.com/eric0324/wisdom-video/internal/errs"
)

// Builder turns match candidates into timeline entries, dropping candidates
// that reference a slide outside the corpus or carry an invalid time range.
// Drops are logged and never interrupt the run.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger}
}

// Build converts valid candidates 1:1 into entries, preserving order.
func (b *Builder) Build(candidates []align.MatchCandidate, slides corpus.SlideCorpus) []Entry {
	entries := make([]Entry, 0, len(candidates))

	for i, c := range candidates {
		if err := c.Validate(); err != nil {
			b.dropCandidate(i, &errs.ValidationError{Reason: err.Error()})
			continue
		}
		if c.SlideIndex >= len(slides) {
			b.dropCandidate(i, &errs.ValidationError{
				Reason: fmt.Sprintf("slide index %d out of range [0, %d)", c.SlideIndex, len(slides)),
			})
			continue
		}

		slide := slides[c.SlideIndex]
		entries = append(entries, Entry{
			StartTime:  c.Start,
			EndTime:    c.End,
			Duration:   c.End - c.Start,
			SlideIndex: slide.Index,
			SlidePath:  slide.ImagePath,
			SlideName:  slide.Name,
			SpeechText: c.SegmentText,
			Confidence: c.Confidence,
		})
	}

	b.logger.Info("timeline built",
		zap.Int("candidates", len(candidates)),
		zap.Int("entries", len(entries)))

	return entries
}

func (b *Builder) dropCandidate(index int, err *errs.ValidationError) {
	b.logger.Warn("dropping invalid match candidate",
		zap.Int("candidate", index),
		zap.Error(err))
}
