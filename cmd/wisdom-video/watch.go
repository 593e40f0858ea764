package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eric0324/wisdom-video/internal/logger"
	"github.com/eric0324/wisdom-video/internal/pipeline"
	"github.com/eric0324/wisdom-video/internal/watcher"
)

func newWatchCommand(configFlag *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a drop folder and process lecture pairs as they arrive",
		Long: "Monitors the configured input directory. When an audio file and " +
			"a PDF with the same base name are both present, a video is " +
			"generated into the output directory. Pairs are processed one at " +
			"a time.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFlag)
			if err != nil {
				return err
			}

			log := logger.NewLogger()
			defer log.Sync()

			runner, err := pipeline.New(cfg, log)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(cfg.GetWatchInputDir(), 0755); err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.GetWatchOutputDir(), 0755); err != nil {
				return err
			}

			handler := func(ctx context.Context, audioPath, slideSource, outputPath string) error {
				_, err := runner.Run(ctx, audioPath, slideSource, outputPath)
				return err
			}

			w, err := watcher.NewWatcher(cfg.GetWatchInputDir(), cfg.GetWatchOutputDir(), handler, log)
			if err != nil {
				return err
			}
			defer w.Stop()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	return cmd
}
