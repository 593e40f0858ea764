// Package report persists the per-run matching report used to audit
// alignment decisions.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/eric0324/wisdom-video/internal/align"
	"github.com/eric0324/wisdom-video/internal/timeline"
)

// Report is the persisted matching report, one per run. The confidence
// carried on each entry lets a consumer tell guided alignment (0.9) from
// fallback alignment (0.6).
type Report struct {
	GenerationTime        string                 `json:"generation_time"`
	TotalMatches          int                    `json:"total_matches"`
	TotalTimelineSegments int                    `json:"total_timeline_segments"`
	Matches               []align.MatchCandidate `json:"matches"`
	Timeline              []timeline.Entry       `json:"timeline"`
}

// New assembles a Report from the raw matches and the merged timeline.
func New(matches []align.MatchCandidate, entries []timeline.Entry) *Report {
	return &Report{
		GenerationTime:        time.Now().Format(time.RFC3339),
		TotalMatches:          len(matches),
		TotalTimelineSegments: len(entries),
		Matches:               matches,
		Timeline:              entries,
	}
}

// Emitter writes matching reports into a logs directory.
type Emitter struct {
	dir    string
	logger *zap.Logger
}

// NewEmitter creates an Emitter writing into dir.
func NewEmitter(dir string, logger *zap.Logger) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emitter{dir: dir, logger: logger}
}

// Emit writes the report and returns its path. The file name carries the
// generation timestamp plus a run-ID fragment so watch-mode runs never
// collide.
func (e *Emitter) Emit(rep *Report, runID string) (string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	name := fmt.Sprintf("matching_report_%s", time.Now().Format("20060102_150405"))
	if len(runID) >= 8 {
		name += "_" + runID[:8]
	}
	path := filepath.Join(e.dir, name+".json")

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal matching report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write matching report: %w", err)
	}

	e.logger.Info("matching report written",
		zap.String("path", path),
		zap.Int("matches", rep.TotalMatches),
		zap.Int("timeline_segments", rep.TotalTimelineSegments))

	return path, nil
}

// Load reads a previously emitted report back.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read matching report %s: %w", path, err)
	}

	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parse matching report %s: %w", path, err)
	}
	return &rep, nil
}
