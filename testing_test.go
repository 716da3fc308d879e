package dagtui

import (
	"io"
	"log/slog"
	"testing"
)

// testLogger returns a logger that discards output. Warning paths are
// exercised by the tests without polluting the test log.
func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
