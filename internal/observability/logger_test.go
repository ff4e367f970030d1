package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSessionLoggerCarriesRemote(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	logger := SessionLogger("10.0.0.7:4242")
	logger.Info().Msg("connected")
	if !strings.Contains(buf.String(), "10.0.0.7:4242") {
		t.Fatalf("remote missing from log output: %s", buf.String())
	}
}
