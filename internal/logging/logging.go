package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New builds the process logger. Dev environments get a console writer,
// everything else emits JSON lines.
func New(level string, dev bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if dev {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(lvl).With().Timestamp().Logger()
}
