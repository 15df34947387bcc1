// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the digest-relay CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/digest-relay/internal/httpcall"
	"github.com/pdiddy/digest-relay/internal/secrets"
	"github.com/pdiddy/digest-relay/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the secret value for
// key. Config-file and environment values win over secret files.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the digest-relay CLI.
var rootCmd = &cobra.Command{
	Use:   "digest-relay",
	Short: "Summarize new channel episodes into chat messages",
	Long: `digest-relay watches a channel for new episodes of a monitored series,
fetches the episode transcript (disk-cached), summarizes it through a
conversational AI backend, and posts the summary to a chat webhook as
batched embeds.

Each invocation processes at most one video and exits: status 0 on success
(including "nothing new to process"), 2 on a retryable failure so an
external scheduler can re-run later, and 1 on a non-retryable failure.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./digest-relay.yaml or ~/.config/digest-relay/config.yaml)")
}

func initConfig() {
	// .env loads before viper so AutomaticEnv sees its values.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "warning: loading .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("digest-relay")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "digest-relay"))
		}
	}

	viper.SetEnvPrefix("DIGEST_RELAY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("logging.mode", "production")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("http.timeout", "30s")
	viper.SetDefault("http.user_agent", "digest-relay/0.1")
	viper.SetDefault("retry.max_attempts", 3)
	viper.SetDefault("retry.base_delay", "1s")
	viper.SetDefault("locate.backend", types.LocateBackendAPI)
	viper.SetDefault("locate.title_prefix", "KS Forward")
	viper.SetDefault("locate.max_results", 5)
	viper.SetDefault("transcript.cache_dir", ".cache/transcripts")
	viper.SetDefault("transcript.use_mock", false)
	viper.SetDefault("transcript.mock_file", "mock_transcript.json")
	viper.SetDefault("summarize.persona", "ks-discord")
	viper.SetDefault("summarize.max_input_chars", 100000)
	viper.SetDefault("summarize.content_blocks", false)
	viper.SetDefault("deliver.footer", "KS Forward")
	viper.SetDefault("deliver.max_description", 4000)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// buildConfig assembles the pipeline configuration from viper and the
// loaded secrets. Callers validate it themselves; the config subcommand
// wants to render an invalid config instead of failing.
func buildConfig() *types.PipelineConfig {
	httpCfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}

	return &types.PipelineConfig{
		Logging: types.LoggingConfig{
			Mode:  viper.GetString("logging.mode"),
			Level: viper.GetString("logging.level"),
		},
		Retry: types.RetryConfig{
			MaxAttempts: viper.GetInt("retry.max_attempts"),
			BaseDelay:   viper.GetDuration("retry.base_delay"),
		},
		Locate: types.LocateConfig{
			HTTPConfig:  httpCfg,
			Backend:     viper.GetString("locate.backend"),
			ChannelID:   viper.GetString("locate.channel_id"),
			TitlePrefix: viper.GetString("locate.title_prefix"),
			MaxResults:  viper.GetInt("locate.max_results"),
			APIKey:      secretDefault("youtube-api-key", viper.GetString("locate.api_key")),
		},
		Transcript: types.TranscriptConfig{
			HTTPConfig: httpCfg,
			APIKey:     secretDefault("transcript-api-key", viper.GetString("transcript.api_key")),
			CacheDir:   viper.GetString("transcript.cache_dir"),
			UseMock:    viper.GetBool("transcript.use_mock"),
			MockFile:   viper.GetString("transcript.mock_file"),
		},
		Summarize: types.SummarizeConfig{
			HTTPConfig:    httpCfg,
			APIURL:        viper.GetString("summarize.api_url"),
			APIKey:        secretDefault("ai-api-key", viper.GetString("summarize.api_key")),
			Persona:       viper.GetString("summarize.persona"),
			MaxInputChars: viper.GetInt("summarize.max_input_chars"),
			ContentBlocks: viper.GetBool("summarize.content_blocks"),
		},
		Deliver: types.DeliverConfig{
			HTTPConfig:     httpCfg,
			WebhookURL:     secretDefault("webhook-url", viper.GetString("deliver.webhook_url")),
			Footer:         viper.GetString("deliver.footer"),
			MaxDescription: viper.GetInt("deliver.max_description"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Distinct statuses so an external scheduler re-runs only when a
		// retry could help.
		if httpcall.Retryable(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
