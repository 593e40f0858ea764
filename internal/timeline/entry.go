// Package timeline converts match candidates into the validated,
// time-ordered slide-display timeline handed to the video compositor.
package timeline

import "fmt"

// Entry is one slide-display interval. Entries are created by the Builder,
// mutated in place by the Merger during coalescing, and immutable once
// emitted to the compositor.
type Entry struct {
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
	Duration   float64 `json:"duration"`
	SlideIndex int     `json:"slide_index"`
	SlidePath  string  `json:"slide_path"`
	SlideName  string  `json:"slide_name"`
	SpeechText string  `json:"speech_text"`
	Confidence float64 `json:"confidence"`
}

// Validate checks if the Entry has valid values.
func (e *Entry) Validate() error {
	if e.SlideIndex < 0 {
		return fmt.Errorf("slide_index cannot be negative")
	}

	if e.StartTime < 0 {
		return fmt.Errorf("start_time cannot be negative")
	}

	if e.EndTime <= e.StartTime {
		return fmt.Errorf("end_time must be greater than start_time")
	}

	if e.SlideName == "" {
		return fmt.Errorf("slide_name cannot be empty")
	}

	return nil
}
