// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/digest-relay/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration with credentials redacted",
	Long: `Config renders the configuration the pipeline would run with, after
merging the config file, environment, .env, and .secrets/, and reports
whether it passes validation. API keys and the webhook URL are masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig()

		redacted := *cfg
		redacted.Locate.APIKey = logging.MaskKey(cfg.Locate.APIKey)
		redacted.Transcript.APIKey = logging.MaskKey(cfg.Transcript.APIKey)
		redacted.Summarize.APIKey = logging.MaskKey(cfg.Summarize.APIKey)
		redacted.Deliver.WebhookURL = logging.MaskURL(cfg.Deliver.WebhookURL)

		if err := yaml.NewEncoder(os.Stdout).Encode(&redacted); err != nil {
			return fmt.Errorf("rendering configuration: %w", err)
		}

		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "validation: %v\n", err)
			return err
		}
		fmt.Fprintln(os.Stderr, "validation: ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
