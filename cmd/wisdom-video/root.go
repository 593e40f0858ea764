package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eric0324/wisdom-video/internal/config"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "wisdom-video",
		Short:         "Turn a lecture recording and its slide deck into a video",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newGenerateCommand(&configFlag))
	rootCmd.AddCommand(newWatchCommand(&configFlag))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// loadConfig reads the config file when one was given, otherwise settings come
// from environment variables and defaults.
func loadConfig(configFlag string) (*config.Configuration, error) {
	if configFlag != "" {
		return config.NewConfigurationFromFile(configFlag)
	}
	return config.NewConfigurationFromEnv()
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the wisdom-video version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
