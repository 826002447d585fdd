package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// L is the process-wide logger. Init must run before the first use.
var L zerolog.Logger

// Init configures the global logger. Console output in development,
// plain JSON everywhere else.
func Init(environment, level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if environment == "development" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		L = zerolog.New(output).With().Timestamp().Logger().Level(lvl)
		return
	}

	L = zerolog.New(os.Stdout).With().Timestamp().Logger().Level(lvl)
}

func init() {
	// Sane default so packages can log before main wires config.
	L = zerolog.New(os.Stdout).With().Timestamp().Logger().Level(zerolog.InfoLevel)
}
