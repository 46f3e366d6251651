package logtail

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReadLatest(t *testing.T) {
	dir := t.TempDir()

	old := filepath.Join(dir, "old.log")
	require.NoError(t, os.WriteFile(old, []byte("old entries"), 0o644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	nested := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "app.log"), []byte("fresh entries"), 0o644))

	// Non-log files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a log"), 0o644))

	got, err := readLatest(dir)
	require.NoError(t, err)
	assert.Equal(t, "fresh entries", got)
}

func TestReadLatestNoFiles(t *testing.T) {
	_, err := readLatest(t.TempDir())
	require.Error(t, err)
}

func TestReadLatestTruncatesLargeFiles(t *testing.T) {
	dir := t.TempDir()
	big := strings.Repeat("x", maxSnapshotBytes+100) + "TAIL"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.log"), []byte(big), 0o644))

	got, err := readLatest(dir)
	require.NoError(t, err)
	assert.Len(t, got, maxSnapshotBytes)
	assert.True(t, strings.HasSuffix(got, "TAIL"))
}

func TestSnapshot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.log"), []byte("line one"), 0o644))

	tailer := NewTailer(dir, time.Second, zap.NewNop())
	assert.Empty(t, tailer.Snapshot())

	tailer.refresh()
	assert.Equal(t, "line one", tailer.Snapshot())
}
