package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eric0324/wisdom-video/internal/errs"
	"github.com/eric0324/wisdom-video/internal/logger"
	"github.com/eric0324/wisdom-video/internal/pipeline"
)

func newGenerateCommand(configFlag *string) *cobra.Command {
	var audioFlag string
	var slidesFlag string
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a lecture video from an audio recording and slides",
		Long: "Transcribes the audio, aligns each slide with the moment it is " +
			"discussed, and renders a video of the deck timed to the recording. " +
			"Slides may be a folder of images or a PDF file.",
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

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, err := runner.Run(ctx, audioFlag, slidesFlag, outputFlag)
			if err != nil {
				if errs.IsFatal(err) {
					return fmt.Errorf("run aborted: %w (corpus progress is checkpointed and resumes on retry)", err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Strategy: %s\n", result.Strategy)
			fmt.Fprintf(out, "Segments: %d  Slides: %d  Matches: %d\n",
				result.SegmentCount, result.SlideCount, result.MatchCount)
			fmt.Fprintln(out, renderTimelineTable(out, result.Timeline))
			fmt.Fprintf(out, "Video:  %s\n", result.VideoPath)
			fmt.Fprintf(out, "Report: %s\n", result.ReportPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&audioFlag, "audio", "", "Lecture audio file (mp3, wav, m4a or flac)")
	cmd.Flags().StringVar(&slidesFlag, "slides", "", "Slide source: image folder or PDF file")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "lecture.mp4", "Output video path")
	cmd.MarkFlagRequired("audio")
	cmd.MarkFlagRequired("slides")

	return cmd
}
