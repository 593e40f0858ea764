// Package pipeline orchestrates a run: ingest, align, validate, merge,
// emit. Stages execute synchronously and in order; no stage starts before
// the previous one completes.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eric0324/wisdom-video/internal/align"
	"github.com/eric0324/wisdom-video/internal/compositor"
	"github.com/eric0324/wisdom-video/internal/config"
	"github.com/eric0324/wisdom-video/internal/corpus"
	"github.com/eric0324/wisdom-video/internal/errs"
	"github.com/eric0324/wisdom-video/internal/guard"
	"github.com/eric0324/wisdom-video/internal/logger"
	"github.com/eric0324/wisdom-video/internal/report"
	"github.com/eric0324/wisdom-video/internal/timeline"
	"github.com/eric0324/wisdom-video/internal/transcript"
	"github.com/eric0324/wisdom-video/pkg/executor"
)

// Strategy names recorded on the run result.
const (
	StrategyGuided   = "guided"
	StrategyFallback = "fallback"
)

// Runner owns one configured pipeline. Components are exported so tests can
// substitute fakes; production wiring goes through New.
type Runner struct {
	Ingester      transcript.Ingester
	FolderBuilder corpus.Builder
	PDFBuilder    corpus.Builder
	Aligner       align.Aligner
	Timeline      *timeline.Builder
	Merger        *timeline.Merger
	Composer      compositor.Composer
	Reporter      *report.Emitter
	Strategy      string

	logger *zap.Logger
}

// Result summarizes a completed run.
type Result struct {
	RunID        string
	Strategy     string
	SegmentCount int
	SlideCount   int
	MatchCount   int
	Timeline     []timeline.Entry
	VideoPath    string
	ReportPath   string
}

// New wires a Runner from configuration. The alignment strategy is decided
// here, before any guided attempt: absent credentials select the fallback,
// and a guided failure later in the run is fatal rather than retried.
func New(cfg *config.Configuration, log *zap.Logger) (*Runner, error) {
	if log == nil {
		log = zap.NewNop()
	}
	exec := executor.New()

	var aligner align.Aligner
	strategy := StrategyGuided
	client, err := align.NewGeminiClient(cfg.GetReasoningAPIKey(), cfg.GetReasoningModel())
	if err != nil {
		var cfgErr *errs.ConfigurationError
		if !errors.As(err, &cfgErr) {
			return nil, err
		}
		log.Warn("reasoning service not configured, selecting fallback alignment", zap.Error(err))
		aligner = align.NewFallbackAligner(log)
		strategy = StrategyFallback
	} else {
		aligner = align.NewGuidedAligner(client, cfg.GetSlideTextLimit(), log)
	}

	resourceGuard := guard.ForConfig(cfg.GetMemoryLimitMB(), log)

	return &Runner{
		Ingester: transcript.NewWhisperIngester(
			cfg.GetWhisperBinaryPath(),
			cfg.GetFFprobePath(),
			cfg.GetWhisperModelPath(),
			cfg.GetWhisperLanguage(),
			exec, log),
		FolderBuilder: corpus.NewImageFolderBuilder(nil, log),
		PDFBuilder: corpus.NewPDFBuilder(
			cfg.GetPdfinfoPath(),
			cfg.GetPdftotextPath(),
			cfg.GetPdftoppmPath(),
			cfg.GetWorkDir(),
			exec, resourceGuard, log),
		Aligner:  aligner,
		Timeline: timeline.NewBuilder(log),
		Merger:   timeline.NewMerger(log),
		Composer: compositor.NewFFmpegComposer(
			cfg.GetFFmpegPath(),
			cfg.GetVideoFPS(),
			cfg.GetVideoHeight(),
			exec, log),
		Reporter: report.NewEmitter(cfg.GetLogsDir(), log),
		Strategy: strategy,
		logger:   log,
	}, nil
}

// Run executes the full pipeline for one audio file and one slide source.
func (r *Runner) Run(ctx context.Context, audioPath, slideSource, outputPath string) (*Result, error) {
	runID := uuid.NewString()
	log := logger.WithRun(r.logger, runID)

	if err := validateAudioPath(audioPath); err != nil {
		return nil, err
	}
	builder, err := r.pickBuilder(slideSource)
	if err != nil {
		return nil, err
	}

	log.Info("starting run",
		zap.String("audio", audioPath),
		zap.String("slides", slideSource),
		zap.String("strategy", r.Strategy))

	t, err := r.Ingester.Ingest(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("ingest stage: %w", err)
	}
	log.Info("ingest stage complete", zap.Int("segments", len(t.Segments)))

	slides, err := builder.Build(ctx, slideSource)
	if err != nil {
		log.Error("corpus stage failed",
			zap.Bool("fatal", errs.IsFatal(err)),
			zap.Error(err))
		return nil, fmt.Errorf("corpus stage: %w", err)
	}
	if len(slides) == 0 {
		return nil, fmt.Errorf("no slides found in %s", slideSource)
	}
	log.Info("corpus stage complete", zap.Int("slides", len(slides)))

	// A malformed guided response aborts here; the fallback strategy is
	// never substituted after a guided attempt.
	matches, err := r.Aligner.Align(ctx, t, slides)
	if err != nil {
		log.Error("align stage failed",
			zap.Bool("fatal", errs.IsFatal(err)),
			zap.Error(err))
		return nil, fmt.Errorf("align stage: %w", err)
	}
	log.Info("align stage complete", zap.Int("candidates", len(matches)))

	entries := r.Timeline.Build(matches, slides)
	merged := r.Merger.Merge(entries)
	log.Info("merge stage complete", zap.Int("timeline_segments", len(merged)))

	if err := r.Composer.Compose(ctx, audioPath, merged, outputPath); err != nil {
		return nil, fmt.Errorf("compose stage: %w", err)
	}

	reportPath, err := r.Reporter.Emit(report.New(matches, merged), runID)
	if err != nil {
		return nil, fmt.Errorf("emit stage: %w", err)
	}

	log.Info("run complete",
		zap.String("video", outputPath),
		zap.String("report", reportPath))

	return &Result{
		RunID:        runID,
		Strategy:     r.Strategy,
		SegmentCount: len(t.Segments),
		SlideCount:   len(slides),
		MatchCount:   len(matches),
		Timeline:     merged,
		VideoPath:    outputPath,
		ReportPath:   reportPath,
	}, nil
}

func (r *Runner) pickBuilder(slideSource string) (corpus.Builder, error) {
	info, err := os.Stat(slideSource)
	if err != nil {
		return nil, fmt.Errorf("slide source %s: %w", slideSource, err)
	}
	if info.IsDir() {
		return r.FolderBuilder, nil
	}
	if strings.EqualFold(filepath.Ext(slideSource), ".pdf") {
		return r.PDFBuilder, nil
	}
	return nil, fmt.Errorf("slide source %s must be an image folder or a .pdf file", slideSource)
}

func validateAudioPath(audioPath string) error {
	if _, err := os.Stat(audioPath); err != nil {
		return fmt.Errorf("audio file %s: %w", audioPath, err)
	}
	if !transcript.IsSupportedAudio(audioPath) {
		return fmt.Errorf("unsupported audio format %s, supported: %s",
			filepath.Ext(audioPath), strings.Join(transcript.AudioExtensions, " "))
	}
	return nil
}
