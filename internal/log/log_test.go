package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(&filteringHandler{underlying: slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})})
}

func TestFilteringHandlerSections(t *testing.T) {
	t.Cleanup(func() { SetSections(DefaultSections) })
	SetSections([]string{"elaborate"})

	buf := &bytes.Buffer{}
	logger := testLogger(buf)

	logger.With("section", "elaborate").Debug("shown")
	logger.With("section", "kindcheck").Debug("hidden")
	logger.Debug("also shown", "section", "elaborate-group")

	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "also shown")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestFilteringHandlerAlwaysShowsWarnings(t *testing.T) {
	t.Cleanup(func() { SetSections(DefaultSections) })
	SetSections(nil)

	buf := &bytes.Buffer{}
	testLogger(buf).With("section", "kindcheck").Warn("careful")

	assert.Contains(t, buf.String(), "careful")
}
