package artifact

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store owns the directory generated audio lives in.
type Store struct {
	dir string
	log *slog.Logger
}

func NewStore(dir string, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &Store{dir: dir, log: log.With(slog.String("component", "artifact"))}, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) Path(name string) string { return filepath.Join(s.dir, name) }

// Count reports how many finished artifacts are on disk.
func (s *Store) Count() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".mp3") {
			n++
		}
	}
	return n, nil
}

// Sweep removes files older than maxAge. Individual failures are logged and
// skipped so one stuck file cannot stall the sweep.
func (s *Store) Sweep(maxAge time.Duration) int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.log.Error("sweep failed", "error", err)
		return 0
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			s.log.Warn("sweep stat failed", "file", e.Name(), "error", err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			s.log.Warn("sweep remove failed", "file", e.Name(), "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		s.log.Info("swept old artifacts", "removed", removed)
	}
	return removed
}

// Run sweeps on a fixed interval until the context is cancelled.
func (s *Store) Run(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(maxAge)
		}
	}
}
