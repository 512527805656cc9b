package observability

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/restorectl/internal/logging"
)

// InitLogger configures the process-wide logger (once, env overrides
// applied) and returns an app-scoped child used by the binaries.
func InitLogger(app string) zerolog.Logger {
	logging.ConfigureRuntime()
	logger := log.Logger.With().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
