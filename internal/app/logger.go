package app

import (
	"os"

	"github.com/guttosm/allocation-service/internal/logger"
)

// InitializeLogger configures the global zerolog logger from LOG_LEVEL and
// LOG_PRETTY. Unset or unknown levels come up as info.
func InitializeLogger() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	logger.Init(level, os.Getenv("LOG_PRETTY") == "true")
}
