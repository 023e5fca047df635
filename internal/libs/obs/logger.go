// Package obs configures zerolog for the service and the terminal picker.
package obs

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes the global logger
func InitLogger(level string) {
	setLevel(level)

	// Pretty print in development
	if os.Getenv("ENV") == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// InitLoggerWithWriter initializes the global logger writing to w.
// The terminal picker uses it to keep log lines off the screen.
func InitLoggerWithWriter(level string, w io.Writer) {
	setLevel(level)
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

func setLevel(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)
}

// Logger returns a new logger with the given component name
func Logger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
