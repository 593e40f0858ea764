package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/eric0324/wisdom-video/internal/transcript"
)

// Handler processes one paired lecture: an audio file, its slide source and
// the destination video path.
type Handler func(ctx context.Context, audioPath, slideSource, outputPath string) error

// Watcher monitors a drop folder and runs the handler once an audio file and
// a slide deck with the same base name are both present. Lectures are
// processed one at a time in arrival order.
type Watcher struct {
	inputDir    string
	outputDir   string
	handler     Handler
	logger      *zap.Logger
	watcher     *fsnotify.Watcher
	settleDelay time.Duration
	processed   map[string]bool
}

// NewWatcher creates a drop-folder watcher over inputDir. Finished videos are
// written to outputDir.
func NewWatcher(inputDir, outputDir string, handler Handler, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fsWatcher.Add(inputDir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch %s: %w", inputDir, err)
	}

	return &Watcher{
		inputDir:    inputDir,
		outputDir:   outputDir,
		handler:     handler,
		logger:      logger,
		watcher:     fsWatcher,
		settleDelay: 500 * time.Millisecond,
		processed:   make(map[string]bool),
	}, nil
}

// Start blocks, processing paired drops until the context is cancelled. Any
// pairs already sitting in the input directory are processed first.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Info("watching drop folder",
		zap.String("input_dir", w.inputDir),
		zap.String("output_dir", w.outputDir))

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			// Either half of a pair may arrive last, so every create
			// re-checks whether its base name is now complete.
			time.Sleep(w.settleDelay)
			w.tryProcess(ctx, baseName(event.Name))

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("watcher error", zap.Error(err))
		}
	}
}

// Stop closes the underlying file watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// sweep processes pairs that were dropped before the watcher started.
func (w *Watcher) sweep(ctx context.Context) {
	entries, err := os.ReadDir(w.inputDir)
	if err != nil {
		w.logger.Error("failed to scan input directory", zap.Error(err))
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ctx.Err() != nil {
			return
		}
		w.tryProcess(ctx, baseName(entry.Name()))
	}
}

func (w *Watcher) tryProcess(ctx context.Context, base string) {
	if base == "" || w.processed[base] {
		return
	}

	audioPath := w.findAudio(base)
	slidePath := filepath.Join(w.inputDir, base+".pdf")
	if audioPath == "" {
		return
	}
	if _, err := os.Stat(slidePath); err != nil {
		w.logger.Debug("waiting for slide deck", zap.String("base", base))
		return
	}

	w.processed[base] = true
	outputPath := filepath.Join(w.outputDir, base+".mp4")
	w.logger.Info("processing lecture pair",
		zap.String("audio", audioPath),
		zap.String("slides", slidePath))

	if err := w.handler(ctx, audioPath, slidePath, outputPath); err != nil {
		w.logger.Error("failed to process lecture",
			zap.String("base", base),
			zap.Error(err))
	}
}

// findAudio returns the path of an audio file in the input directory with the
// given base name, or empty when none exists.
func (w *Watcher) findAudio(base string) string {
	for _, ext := range transcript.AudioExtensions {
		candidate := filepath.Join(w.inputDir, base+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
