package logger

import (
	"bytes"
	"context"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)

	l.Info("mounted", "path", "/mnt/execfs")

	line := buf.String()
	re := regexp.MustCompile(`^\[\d{2}-\d{2}-\d{4} \d{2}:\d{2}:\d{2}\] mounted path=/mnt/execfs\n$`)
	assert.Regexp(t, re, line)
}

func TestMonthIsOneIndexed(t *testing.T) {
	// A record logged in January must render month "01", not "00" — the
	// corrected behavior relative to the original program's apparent
	// off-by-one (see DESIGN.md).
	var buf bytes.Buffer
	h := newFileHandler(&buf, LevelInfo)

	january := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)
	r := slog.NewRecord(january, slog.LevelInfo, "probe", 0)
	require.NoError(t, h.Handle(context.Background(), r))

	assert.Contains(t, buf.String(), "[15-01-2024")
}

func TestBelowMinLevelSuppressed(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarning)

	l.Debug("should not appear")
	assert.Empty(t, buf.String())

	l.Warn("should appear")
	assert.NotEmpty(t, buf.String())
}

func TestOpenAndClose(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir+"/execfs.log", LevelInfo)
	require.NoError(t, err)

	l.Info("hello")
	require.NoError(t, l.Close())
}
