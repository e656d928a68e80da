package logging

import (
	"fmt"

	"github.com/rs/zerolog"
)

// parseLevel maps the configured level string to a zerolog level.
// An empty input defaults to InfoLevel; an invalid input is an error.
func parseLevel(logLevelInput string) (zerolog.Level, error) {
	if logLevelInput == "" {
		return zerolog.InfoLevel, nil
	}

	level, err := zerolog.ParseLevel(logLevelInput)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level: %w", err)
	}

	return level, nil
}
