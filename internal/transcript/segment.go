package transcript

import "fmt"

// SpeechSegment represents a single time-stamped span of transcribed speech.
type SpeechSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Validate checks if the SpeechSegment has valid values.
func (s *SpeechSegment) Validate() error {
	if s.Text == "" {
		return fmt.Errorf("text cannot be empty")
	}

	if s.Start < 0 {
		return fmt.Errorf("start cannot be negative")
	}

	if s.End <= s.Start {
		return fmt.Errorf("end must be greater than start")
	}

	return nil
}

// Transcript is the ordered, non-overlapping sequence of speech segments
// covering a narration track, plus its total duration.
type Transcript struct {
	Segments []SpeechSegment `json:"segments"`
	FullText string          `json:"full_text"`
	Duration float64         `json:"duration"`
}

// Validate checks the Transcript ordering and duration invariants.
func (t *Transcript) Validate() error {
	if t.Duration <= 0 {
		return fmt.Errorf("duration must be positive")
	}

	for i := range t.Segments {
		if err := t.Segments[i].Validate(); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
		if i > 0 && t.Segments[i].Start < t.Segments[i-1].End {
			return fmt.Errorf("segment %d overlaps previous segment", i)
		}
	}

	if n := len(t.Segments); n > 0 && t.Duration < t.Segments[n-1].End {
		return fmt.Errorf("duration %.3f is shorter than the last segment end %.3f", t.Duration, t.Segments[n-1].End)
	}

	return nil
}
