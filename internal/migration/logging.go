package migration

import (
	"strings"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

type gooseAdapter struct {
	logger zerolog.Logger
}

// NewGooseAdapter routes goose's log output through zerolog.
func NewGooseAdapter(logger zerolog.Logger) goose.Logger {
	return &gooseAdapter{logger: logger.With().Str("component", "goose").Logger()}
}

func (a *gooseAdapter) Printf(format string, v ...interface{}) {
	a.logger.Info().Msgf(strings.TrimRight(format, "\n"), v...)
}

func (a *gooseAdapter) Fatalf(format string, v ...interface{}) {
	a.logger.Fatal().Msgf(strings.TrimRight(format, "\n"), v...)
}
