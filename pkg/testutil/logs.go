package testutil

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CaptureLogs routes the global logger into a buffer at trace level for the
// duration of the test
func CaptureLogs(t *testing.T) *strings.Builder {
	t.Helper()

	var buf strings.Builder
	prevLogger := log.Logger
	prevLevel := zerolog.GlobalLevel()

	log.Logger = zerolog.New(zerolog.SyncWriter(&buf))
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})
	return &buf
}
