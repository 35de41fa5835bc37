package synthesis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/nikhilbhutani/voiceforge/pkg/chunker"
)

// Scheduler fans chunk synthesis out to the backend under a concurrency cap
// and returns results in chunk order. One Scheduler serves the whole process,
// so the cap is global across requests, not per-request.
type Scheduler struct {
	provider Provider
	sem      *semaphore.Weighted
	timeout  time.Duration
	log      *slog.Logger
}

func NewScheduler(p Provider, maxConcurrent int, timeout time.Duration, log *slog.Logger) *Scheduler {
	if maxConcurrent <= 0 {
		maxConcurrent = 15
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Scheduler{
		provider: p,
		sem:      semaphore.NewWeighted(int64(maxConcurrent)),
		timeout:  timeout,
		log:      log.With(slog.String("component", "scheduler")),
	}
}

// SynthesizeAll synthesizes every chunk concurrently. The returned slice is
// index-aligned with chunks regardless of backend completion order. The first
// failure cancels in-flight siblings and fails the whole call; no partial
// results are returned.
func (s *Scheduler) SynthesizeAll(ctx context.Context, chunks []chunker.Chunk, voiceID string) ([]*Result, error) {
	s.log.Debug("dispatching chunks", "count", len(chunks), "voice", voiceID)

	results := make([]*Result, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			if err := s.sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer s.sem.Release(1)

			callCtx, cancel := context.WithTimeout(gctx, s.timeout)
			defer cancel()

			res, err := s.provider.Synthesize(callCtx, Request{Text: chunk.Content, Voice: voiceID})
			if err != nil {
				return fmt.Errorf("chunk %d: %w", chunk.Index, err)
			}

			// Each goroutine writes only its own slot; order is restored
			// by index, never by completion.
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
