package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eric0324/wisdom-video/internal/timeline"
)

func TestRenderTimelineTable(t *testing.T) {
	entries := []timeline.Entry{
		{StartTime: 0, EndTime: 70, Duration: 70, SlideIndex: 0, SlideName: "intro.png", Confidence: 0.9},
		{StartTime: 70, EndTime: 100, Duration: 30, SlideIndex: 2, SlideName: "summary.png", Confidence: 0.6},
	}

	var buf bytes.Buffer
	out := renderTimelineTable(&buf, entries)

	assert.Contains(t, out, "intro.png")
	assert.Contains(t, out, "summary.png")
	assert.Contains(t, out, "70.0s")
	assert.Contains(t, out, "90%")
	assert.Contains(t, out, "60%")
	assert.Contains(t, out, "CONFIDENCE")
}

func TestRenderTimelineTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	out := renderTimelineTable(&buf, nil)
	assert.Contains(t, out, "SLIDE")
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	root := newRootCommand()

	names := make([]string, 0)
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}

	assert.Contains(t, names, "generate")
	assert.Contains(t, names, "watch")
	assert.Contains(t, names, "version")
}

func TestVersionCommand(t *testing.T) {
	root := newRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"version"})

	assert.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), version)
}
