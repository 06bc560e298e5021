package config

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ConfigureLogging sets up the global zerolog logger from the logging config.
func ConfigureLogging(cfg LoggingConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		log.Error().Err(err).Msg("invalid log level, falling back to info")
		level = zerolog.InfoLevel
	}

	if cfg.Console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	zerolog.SetGlobalLevel(level)
	zerolog.DefaultContextLogger = &log.Logger
}
