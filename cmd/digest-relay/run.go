// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/digest-relay/internal/logging"
	"github.com/pdiddy/digest-relay/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process the channel's latest matching episode",
	Long: `Run locates the newest video whose title starts with the configured
series prefix, fetches its transcript (from the cache when possible),
summarizes it through the AI backend, and delivers the summary to the
webhook. Finding no new episode or an empty transcript ends the run
normally with nothing delivered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		log, err := logging.New(cfg.Logging)
		if err != nil {
			return err
		}
		defer log.Sync()

		report, err := pipeline.New(cfg, log).Run(cmd.Context())
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		return report.Format(os.Stdout, format)
	},
}

func init() {
	runCmd.Flags().String("format", "table", "report output format: table, json, or yaml")
	runCmd.Flags().Bool("use-mock", false, "read the canned transcript file instead of the transcript API")
	viper.BindPFlag("transcript.use_mock", runCmd.Flags().Lookup("use-mock"))

	rootCmd.AddCommand(runCmd)
}
