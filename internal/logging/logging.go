package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures zerolog for the process.
func Setup(environment string) zerolog.Logger {
	return SetupWithWriter(environment, os.Stdout)
}

// SetupWithWriter configures zerolog to write human-readable output to w.
// Production environments log JSON instead.
func SetupWithWriter(environment string, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level := zerolog.InfoLevel
	if environment == "development" {
		level = zerolog.DebugLevel
	}

	out := w
	if environment != "production" {
		out = zerolog.ConsoleWriter{Out: w, NoColor: w != os.Stdout}
	}

	logger := zerolog.New(out).With().Timestamp().Logger().Level(level)
	log.Logger = logger
	return logger
}
