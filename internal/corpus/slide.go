package corpus

import "fmt"

// SlideDescriptor represents one ordered presentation unit with its
// extracted text.
type SlideDescriptor struct {
	Index         int    `json:"slide_index"`
	Name          string `json:"slide_name"`
	ImagePath     string `json:"slide_path"`
	ExtractedText string `json:"extracted_text"`
	WordCount     int    `json:"word_count"`
}

// Validate checks if the SlideDescriptor has valid values. Extracted text
// may be empty: a failed extraction is substituted with a placeholder.
func (s *SlideDescriptor) Validate() error {
	if s.Index < 0 {
		return fmt.Errorf("slide_index cannot be negative")
	}

	if s.Name == "" {
		return fmt.Errorf("slide_name cannot be empty")
	}

	if s.WordCount < 0 {
		return fmt.Errorf("word_count cannot be negative")
	}

	return nil
}

// SlideCorpus is the ordered, index-contiguous sequence of slides for one
// presentation.
type SlideCorpus []SlideDescriptor

// Validate checks that the corpus indices are contiguous from zero.
func (c SlideCorpus) Validate() error {
	for i := range c {
		if err := c[i].Validate(); err != nil {
			return fmt.Errorf("slide %d: %w", i, err)
		}
		if c[i].Index != i {
			return fmt.Errorf("slide %d has index %d, corpus indices must be contiguous from 0", i, c[i].Index)
		}
	}
	return nil
}
