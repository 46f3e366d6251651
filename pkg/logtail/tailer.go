// Package logtail polls the newest log file on a fixed interval so the UI
// can show a refreshing log panel. It shares no state with the query
// sessions and never blocks them.
package logtail

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// maxSnapshotBytes caps how much of the log file is kept in memory; only
// the tail of a large file is served.
const maxSnapshotBytes = 64 * 1024

// Tailer periodically re-reads the most recently modified *.log file under
// a directory and serves the latest contents.
type Tailer struct {
	dir      string
	interval time.Duration
	logger   *zap.Logger

	mu      sync.RWMutex
	content string
}

// NewTailer creates a tailer over dir, refreshing every interval.
func NewTailer(dir string, interval time.Duration, logger *zap.Logger) *Tailer {
	return &Tailer{
		dir:      dir,
		interval: interval,
		logger:   logger.Named("logtail"),
	}
}

// Run polls until the context is canceled. Call it on its own goroutine.
func (t *Tailer) Run(ctx context.Context) {
	t.refresh()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.refresh()
		}
	}
}

// Snapshot returns the most recently read log contents.
func (t *Tailer) Snapshot() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.content
}

func (t *Tailer) refresh() {
	content, err := readLatest(t.dir)
	if err != nil {
		t.logger.Debug("log tail refresh skipped", zap.Error(err))
		return
	}
	t.mu.Lock()
	t.content = content
	t.mu.Unlock()
}

// readLatest finds the most recently modified .log file under dir
// (recursively) and returns up to maxSnapshotBytes of its tail.
func readLatest(dir string) (string, error) {
	var newest string
	var newestMod time.Time

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(d.Name(), ".log") {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = path
			newestMod = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scan log directory: %w", err)
	}
	if newest == "" {
		return "", fmt.Errorf("no log files under %s", dir)
	}

	f, err := os.Open(newest)
	if err != nil {
		return "", fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat log file: %w", err)
	}

	size := info.Size()
	offset := int64(0)
	if size > maxSnapshotBytes {
		offset = size - maxSnapshotBytes
	}

	buf := make([]byte, size-offset)
	if _, err := f.ReadAt(buf, offset); err != nil {
		return "", fmt.Errorf("read log file: %w", err)
	}
	return string(buf), nil
}
