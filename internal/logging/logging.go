package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the logger every component derives from. With logging disabled
// it returns a no-op logger rather than filtering at call sites.
func New(enabled bool) zerolog.Logger {
	if !enabled {
		return zerolog.Nop()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	return zerolog.New(output).With().
		Timestamp().
		Logger()
}
