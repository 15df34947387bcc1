// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/digest-relay/internal/logging"
	"github.com/pdiddy/digest-relay/internal/pipeline"
)

var linkCmd = &cobra.Command{
	Use:   "link <watch-url>",
	Short: "Summarize one video by its watch URL",
	Long: `Link bypasses the channel search and processes a single video on
demand: resolve the title, fetch the transcript (cache-first), summarize,
and deliver. Requires the api locate backend.`,
	Args: cobra.ExactArgs(1),
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

		report, err := pipeline.New(cfg, log).RunLink(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		return report.Format(os.Stdout, format)
	},
}

func init() {
	linkCmd.Flags().String("format", "table", "report output format: table, json, or yaml")

	rootCmd.AddCommand(linkCmd)
}
