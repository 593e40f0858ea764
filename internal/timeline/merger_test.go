package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerger_CoalescesSameSlideWithinGap(t *testing.T) {
	// Gap of 0.5s between two intervals of slide 2 merges them into one.
	entries := []Entry{
		{StartTime: 8.0, EndTime: 10.0, Duration: 2.0, SlideIndex: 2, SlideName: "slide_3.png", SpeechText: "first part", Confidence: 0.9},
		{StartTime: 10.5, EndTime: 12.0, Duration: 1.5, SlideIndex: 2, SlideName: "slide_3.png", SpeechText: "second part", Confidence: 0.6},
	}

	merged := NewMerger(nil).Merge(entries)

	require.Len(t, merged, 1)
	assert.Equal(t, 8.0, merged[0].StartTime)
	assert.Equal(t, 12.0, merged[0].EndTime)
	assert.Equal(t, 4.0, merged[0].Duration)
	assert.Equal(t, "first part second part", merged[0].SpeechText)
	// First-wins confidence policy.
	assert.Equal(t, 0.9, merged[0].Confidence)
}

func TestMerger_GapAtOrAboveOneSecondDoesNotMerge(t *testing.T) {
	entries := []Entry{
		{StartTime: 0, EndTime: 10, Duration: 10, SlideIndex: 0, SlideName: "a", SpeechText: "x", Confidence: 0.9},
		{StartTime: 11, EndTime: 15, Duration: 4, SlideIndex: 0, SlideName: "a", SpeechText: "y", Confidence: 0.9},
	}

	merged := NewMerger(nil).Merge(entries)

	assert.Len(t, merged, 2)
}

func TestMerger_DifferentSlidesDoNotMerge(t *testing.T) {
	entries := []Entry{
		{StartTime: 0, EndTime: 10, Duration: 10, SlideIndex: 0, SlideName: "a", SpeechText: "x", Confidence: 0.9},
		{StartTime: 10, EndTime: 20, Duration: 10, SlideIndex: 1, SlideName: "b", SpeechText: "y", Confidence: 0.9},
	}

	merged := NewMerger(nil).Merge(entries)

	assert.Len(t, merged, 2)
}

func TestMerger_SlightOverlapStillMerges(t *testing.T) {
	entries := []Entry{
		{StartTime: 0, EndTime: 10.2, Duration: 10.2, SlideIndex: 0, SlideName: "a", SpeechText: "x", Confidence: 0.9},
		{StartTime: 10.0, EndTime: 15, Duration: 5, SlideIndex: 0, SlideName: "a", SpeechText: "y", Confidence: 0.9},
	}

	merged := NewMerger(nil).Merge(entries)

	require.Len(t, merged, 1)
	assert.Equal(t, 15.0, merged[0].EndTime)
}

func TestMerger_ChainOfThreeMergesIntoOne(t *testing.T) {
	entries := []Entry{
		{StartTime: 0, EndTime: 5, Duration: 5, SlideIndex: 1, SlideName: "b", SpeechText: "a", Confidence: 0.9},
		{StartTime: 5, EndTime: 9, Duration: 4, SlideIndex: 1, SlideName: "b", SpeechText: "b", Confidence: 0.6},
		{StartTime: 9.5, EndTime: 14, Duration: 4.5, SlideIndex: 1, SlideName: "b", SpeechText: "c", Confidence: 0.3},
	}

	merged := NewMerger(nil).Merge(entries)

	require.Len(t, merged, 1)
	assert.Equal(t, 14.0, merged[0].EndTime)
	assert.Equal(t, "a b c", merged[0].SpeechText)
	assert.Equal(t, 0.9, merged[0].Confidence)
}

func TestMerger_Idempotent(t *testing.T) {
	entries := []Entry{
		{StartTime: 0, EndTime: 5, Duration: 5, SlideIndex: 0, SlideName: "a", SpeechText: "x", Confidence: 0.9},
		{StartTime: 5.2, EndTime: 9, Duration: 3.8, SlideIndex: 0, SlideName: "a", SpeechText: "y", Confidence: 0.6},
		{StartTime: 10.5, EndTime: 15, Duration: 4.5, SlideIndex: 0, SlideName: "a", SpeechText: "z", Confidence: 0.6},
		{StartTime: 15, EndTime: 22, Duration: 7, SlideIndex: 1, SlideName: "b", SpeechText: "w", Confidence: 0.9},
	}

	once := NewMerger(nil).Merge(entries)
	twice := NewMerger(nil).Merge(once)

	assert.Equal(t, once, twice)
}

func TestMerger_EmptyTimeline(t *testing.T) {
	assert.Empty(t, NewMerger(nil).Merge(nil))
}

func TestMerger_SingleEntryPassesThrough(t *testing.T) {
	entries := []Entry{
		{StartTime: 0, EndTime: 5, Duration: 5, SlideIndex: 0, SlideName: "a", SpeechText: "x", Confidence: 0.6},
	}

	merged := NewMerger(nil).Merge(entries)

	assert.Equal(t, entries, merged)
}
