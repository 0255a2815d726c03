// Package logtrace configures the process-wide zerolog logger.
package logtrace

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes the global logger. Output goes to stderr with
// Unix timestamps; the level defaults to info and can be overridden
// with the ARCREST_LOG_LEVEL environment variable.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if raw := os.Getenv("ARCREST_LOG_LEVEL"); raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)
}
