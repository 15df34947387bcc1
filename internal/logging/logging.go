// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the zap logger shared by all pipeline stages and
// provides masking helpers that keep credentials out of log output.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/digest-relay/pkg/types"
)

// New builds a SugaredLogger from cfg. Mode "development" selects console
// output; any other mode selects the production JSON encoder. An empty level
// keeps the preset default (debug for development, info for production).
func New(cfg types.LoggingConfig) (*zap.SugaredLogger, error) {
	var zc zap.Config
	if cfg.Mode == "development" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}

	if cfg.Level != "" {
		lvl, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parsing logging.level: %w", err)
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger.Sugar(), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// MaskKey redacts an API key for logging. Keys longer than eight characters
// keep their first and last four so operators can tell keys apart.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// MaskURL redacts everything after the host of a URL. Webhook URLs embed
// their credential in the path, so only scheme and host survive.
func MaskURL(raw string) string {
	i := strings.Index(raw, "://")
	if i < 0 {
		return "***"
	}
	rest := raw[i+3:]
	j := strings.Index(rest, "/")
	if j < 0 {
		return raw
	}
	return raw[:i+3] + rest[:j] + "/***"
}
