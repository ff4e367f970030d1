package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger configures the process-wide logger. Referee traffic is
// console-oriented: operators read it live during a match.
func InitLogger(app string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}

// SessionLogger tags every event of one remote-control or vision session
// with its peer address.
func SessionLogger(remote string) zerolog.Logger {
	return log.With().Str("remote", remote).Logger()
}
