package align

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/eric0324/wisdom-video/internal/corpus"
	"github.com/eric0324/wisdom-video/internal/errs"
	"github.com/eric0324/wisdom-video/internal/transcript"
)

const guidedSystemPrompt = `You are a course video production assistant.
The slides are designed in order; each slide corresponds to one span of the
narration. Analyze the narration and the slide contents and decide when each
slide should be shown.

## Switching rules:
- Slides must play strictly in order (0, 1, 2, ...), never skipped or repeated.
- Switch only when the narration clearly starts discussing the next slide's topic.
- Do not switch while the narration is still on the current slide's topic.
- Look for explicit section titles, numbering, or topic transitions.
- The last slide runs until the end of the audio.
- Every slide should stay on screen long enough to read.

## Output format:
Return a JSON object with the time range of every slide:
{
  "slide_timings": [
    {
      "slide_index": 1,
      "start_time": 60.0,
      "end_time": 120.0,
      "reason": "narration moves on to the topic shown on slide 1"
    }
  ]
}`

const defaultTimingReason = "slides presented in order"

// fencedJSON pulls a JSON payload out of a markdown code fence when the
// service wraps its answer in one.
var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// GuidedAligner delegates slide-timing decisions to a reasoning service.
// A response that cannot be parsed into the expected schema is fatal for
// the run: the fallback strategy is never used after a guided attempt.
type GuidedAligner struct {
	client       ReasoningClient
	slideTextCap int
	logger       *zap.Logger
}

// NewGuidedAligner creates a GuidedAligner. slideTextCap bounds the per-slide
// text sent to the service.
func NewGuidedAligner(client ReasoningClient, slideTextCap int, logger *zap.Logger) *GuidedAligner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GuidedAligner{client: client, slideTextCap: slideTextCap, logger: logger}
}

type condensedSlide struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

type condensedSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type slideTiming struct {
	SlideIndex *int     `json:"slide_index"`
	StartTime  *float64 `json:"start_time"`
	EndTime    *float64 `json:"end_time"`
	// Alternate key the service has been observed to emit for the end
	// boundary. Accepted only when end_time is absent.
	End    *float64 `json:"end"`
	Reason string   `json:"reason"`
}

type timingEnvelope struct {
	SlideTimings *[]slideTiming `json:"slide_timings"`
}

// Align sends a condensed representation of the slides and segments to the
// reasoning service and converts its slide timings into match candidates.
func (a *GuidedAligner) Align(ctx context.Context, t *transcript.Transcript, slides corpus.SlideCorpus) ([]MatchCandidate, error) {
	if len(t.Segments) == 0 || len(slides) == 0 {
		return []MatchCandidate{}, nil
	}

	userPrompt, err := a.buildUserPrompt(t, slides)
	if err != nil {
		return nil, err
	}

	a.logger.Info("requesting guided alignment",
		zap.Int("segments", len(t.Segments)),
		zap.Int("slides", len(slides)))

	response, err := a.client.GenerateContent(ctx, guidedSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("guided alignment request failed: %w", err)
	}

	timings, err := parseSlideTimings(response)
	if err != nil {
		return nil, err
	}

	candidates := make([]MatchCandidate, 0, len(timings))
	for _, timing := range timings {
		start := *timing.StartTime
		end := timing.endBoundary()
		if end > t.Duration {
			end = t.Duration
		}

		reason := timing.Reason
		if reason == "" {
			reason = defaultTimingReason
		}

		candidates = append(candidates, MatchCandidate{
			SlideIndex:  *timing.SlideIndex,
			Start:       start,
			End:         end,
			SegmentText: aggregateSegmentText(t.Segments, start, end),
			Confidence:  GuidedConfidence,
			Reason:      reason,
		})
	}

	a.logger.Info("guided alignment complete", zap.Int("candidates", len(candidates)))
	return candidates, nil
}

func (a *GuidedAligner) buildUserPrompt(t *transcript.Transcript, slides corpus.SlideCorpus) (string, error) {
	condensedSlides := make([]condensedSlide, 0, len(slides))
	for _, slide := range slides {
		content := slide.ExtractedText
		// The cap counts characters, not bytes; a byte slice could split a
		// multibyte rune and corrupt the payload.
		if runes := []rune(content); a.slideTextCap > 0 && len(runes) > a.slideTextCap {
			content = string(runes[:a.slideTextCap])
		}
		condensedSlides = append(condensedSlides, condensedSlide{
			Index:   slide.Index,
			Name:    slide.Name,
			Content: content,
		})
	}

	condensedSegments := make([]condensedSegment, 0, len(t.Segments))
	for _, seg := range t.Segments {
		condensedSegments = append(condensedSegments, condensedSegment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}

	slidesJSON, err := json.MarshalIndent(condensedSlides, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal condensed slides: %w", err)
	}
	segmentsJSON, err := json.MarshalIndent(condensedSegments, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal condensed segments: %w", err)
	}

	return fmt.Sprintf("Slide contents:\n%s\n\nNarration segments:\n%s\n", slidesJSON, segmentsJSON), nil
}

// parseSlideTimings extracts and validates the slide_timings payload.
// Any schema violation is a MalformedResponseError.
func parseSlideTimings(response string) ([]slideTiming, error) {
	payload := response
	if m := fencedJSON.FindStringSubmatch(response); m != nil {
		payload = m[1]
	}

	var envelope timingEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		return nil, &errs.MalformedResponseError{
			Reason: fmt.Sprintf("response is not valid JSON: %v", err),
			Raw:    response,
		}
	}

	if envelope.SlideTimings == nil {
		return nil, &errs.MalformedResponseError{
			Reason: "slide_timings key is missing",
			Raw:    response,
		}
	}

	for i, timing := range *envelope.SlideTimings {
		switch {
		case timing.SlideIndex == nil:
			return nil, &errs.MalformedResponseError{
				Reason: fmt.Sprintf("timing %d is missing slide_index", i),
				Raw:    response,
			}
		case timing.StartTime == nil:
			return nil, &errs.MalformedResponseError{
				Reason: fmt.Sprintf("timing %d is missing start_time", i),
				Raw:    response,
			}
		case timing.EndTime == nil && timing.End == nil:
			return nil, &errs.MalformedResponseError{
				Reason: fmt.Sprintf("timing %d is missing end_time", i),
				Raw:    response,
			}
		}
	}

	return *envelope.SlideTimings, nil
}

func (t *slideTiming) endBoundary() float64 {
	if t.EndTime != nil {
		return *t.EndTime
	}
	return *t.End
}

// aggregateSegmentText concatenates, in order, the text of every segment
// fully contained in [start, end). When none are contained it substitutes a
// placeholder naming the range.
func aggregateSegmentText(segments []transcript.SpeechSegment, start, end float64) string {
	var texts []string
	for _, seg := range segments {
		if seg.Start >= start && seg.End <= end {
			texts = append(texts, seg.Text)
		}
	}
	if len(texts) == 0 {
		return fmt.Sprintf("time range %.1fs - %.1fs", start, end)
	}
	return strings.Join(texts, " ")
}
