package types

import (
	"fmt"
	"strings"
	"time"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "digest-relay/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RetryConfig parameterizes the retry policy shared by all outbound calls.
// The wait before attempt n+1 is BaseDelay multiplied by n.
type RetryConfig struct {
	// MaxAttempts is the total attempt budget per call (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// BaseDelay is the backoff unit between attempts (default 1s).
	BaseDelay time.Duration `json:"base_delay" yaml:"base_delay"`
}

// Locate backend selectors.
const (
	LocateBackendAPI  = "api"
	LocateBackendFeed = "feed"
)

// LocateConfig holds settings for the locate stage.
type LocateConfig struct {
	HTTPConfig `yaml:",inline"`

	// Backend selects the channel listing source: "api" (Data API, needs a
	// key) or "feed" (public Atom feed, keyless).
	Backend string `json:"backend" yaml:"backend"`

	// ChannelID is the monitored channel.
	ChannelID string `json:"channel_id" yaml:"channel_id"`

	// TitlePrefix selects the monitored series (default "KS Forward").
	TitlePrefix string `json:"title_prefix" yaml:"title_prefix"`

	// MaxResults is the number of recent videos requested (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// APIKey authenticates Data API requests. Unused by the feed backend.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// TranscriptConfig holds settings for the transcript stage.
type TranscriptConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates the transcript provider (x-api-key header).
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// CacheDir is the directory holding one raw response file per video id.
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// UseMock reads MockFile instead of calling the provider.
	UseMock bool `json:"use_mock" yaml:"use_mock"`

	// MockFile is the canned transcript JSON read in mock mode.
	MockFile string `json:"mock_file" yaml:"mock_file"`
}

// SummarizeConfig holds settings for the AI summarization stage.
type SummarizeConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIURL is the chat endpoint of the AI backend.
	APIURL string `json:"api_url" yaml:"api_url"`

	// APIKey authenticates the AI backend (x-api-key header).
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Persona selects the backend profile, also used as the user id
	// (default "ks-discord").
	Persona string `json:"persona" yaml:"persona"`

	// MaxInputChars bounds the transcript sent to the backend, counted in
	// runes (default 100000). Longer input is truncated, not rejected.
	MaxInputChars int `json:"max_input_chars" yaml:"max_input_chars"`

	// ContentBlocks switches the request body to the structured
	// [{type:"text",text:...}] content shape the newer backend expects.
	ContentBlocks bool `json:"content_blocks" yaml:"content_blocks"`
}

// DeliverConfig holds settings for webhook delivery.
type DeliverConfig struct {
	HTTPConfig `yaml:",inline"`

	// WebhookURL is the destination webhook. Treated as a credential:
	// always masked in logs.
	WebhookURL string `json:"webhook_url,omitempty" yaml:"webhook_url,omitempty"`

	// Footer is the embed footer text (default "KS Forward").
	Footer string `json:"footer" yaml:"footer"`

	// MaxDescription is the per-embed character budget, counted in runes
	// (default 4000, below the destination's 4096 hard limit).
	MaxDescription int `json:"max_description" yaml:"max_description"`
}

// LoggingConfig selects the log output style.
type LoggingConfig struct {
	// Mode is "production" (JSON) or "development" (console).
	Mode string `json:"mode" yaml:"mode"`

	// Level is the minimum level: debug, info, warn, error.
	Level string `json:"level" yaml:"level"`
}

// PipelineConfig groups all stage configurations for one run. It is built
// once at startup and passed into every component; nothing reads
// configuration globally.
type PipelineConfig struct {
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
	Retry      RetryConfig      `json:"retry" yaml:"retry"`
	Locate     LocateConfig     `json:"locate" yaml:"locate"`
	Transcript TranscriptConfig `json:"transcript" yaml:"transcript"`
	Summarize  SummarizeConfig  `json:"summarize" yaml:"summarize"`
	Deliver    DeliverConfig    `json:"deliver" yaml:"deliver"`
}

// Validate checks required settings and basic formats. It returns the first
// problem found, naming the offending configuration key.
func (c *PipelineConfig) Validate() error {
	switch c.Locate.Backend {
	case LocateBackendAPI, LocateBackendFeed:
	default:
		return fmt.Errorf("locate.backend must be %q or %q, got %q",
			LocateBackendAPI, LocateBackendFeed, c.Locate.Backend)
	}

	if len(c.Locate.ChannelID) < 10 {
		return fmt.Errorf("locate.channel_id appears to be invalid (too short)")
	}

	if c.Locate.Backend == LocateBackendAPI && len(c.Locate.APIKey) < 10 {
		return fmt.Errorf("locate.api_key appears to be invalid (too short)")
	}

	if !c.Transcript.UseMock && c.Transcript.APIKey == "" {
		return fmt.Errorf("transcript.api_key cannot be empty")
	}
	if c.Transcript.CacheDir == "" {
		return fmt.Errorf("transcript.cache_dir cannot be empty")
	}

	if err := validateURL("summarize.api_url", c.Summarize.APIURL); err != nil {
		return err
	}
	if c.Summarize.MaxInputChars <= 0 {
		return fmt.Errorf("summarize.max_input_chars must be positive")
	}

	if err := validateURL("deliver.webhook_url", c.Deliver.WebhookURL); err != nil {
		return err
	}
	if c.Deliver.MaxDescription <= 0 {
		return fmt.Errorf("deliver.max_description must be positive")
	}

	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry.max_attempts must be positive")
	}

	return nil
}

// validateURL rejects empty values and non-HTTP schemes.
func validateURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s cannot be empty", key)
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return fmt.Errorf("%s must be a valid URL (starting with http:// or https://)", key)
	}
	return nil
}
