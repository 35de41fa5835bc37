package audio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ProcessorOptions tunes decoding and per-chunk cleanup.
type ProcessorOptions struct {
	Workers            int
	HeadroomDB         float64
	SilenceThresholdDB float64
	MinSilenceRun      time.Duration
}

func DefaultProcessorOptions() ProcessorOptions {
	return ProcessorOptions{
		Workers:            8,
		HeadroomDB:         0.1,
		SilenceThresholdDB: -40,
		MinSilenceRun:      50 * time.Millisecond,
	}
}

// Processor decodes and cleans synthesized chunks concurrently. One
// Processor serves the whole process, so its worker cap holds across
// overlapping requests.
type Processor struct {
	decoder *Decoder
	opts    ProcessorOptions
	sem     *semaphore.Weighted
	log     *slog.Logger
}

func NewProcessor(decoder *Decoder, opts ProcessorOptions, log *slog.Logger) *Processor {
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	return &Processor{
		decoder: decoder,
		opts:    opts,
		sem:     semaphore.NewWeighted(int64(opts.Workers)),
		log:     log.With(slog.String("component", "processor")),
	}
}

// ProcessAll decodes every chunk, then normalizes its peak and trims edge
// silence. The returned slice is index-aligned with the input; any failure
// fails the whole batch.
func (p *Processor) ProcessAll(ctx context.Context, encoded []Encoded) ([]*Segment, error) {
	p.log.Debug("processing chunks", "count", len(encoded))

	segments := make([]*Segment, len(encoded))

	g, gctx := errgroup.WithContext(ctx)
	for i, enc := range encoded {
		i, enc := i, enc
		g.Go(func() error {
			if err := p.sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer p.sem.Release(1)

			seg, err := p.decoder.Decode(gctx, enc)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			NormalizePeak(seg, p.opts.HeadroomDB)
			TrimSilence(seg, p.opts.SilenceThresholdDB, p.opts.MinSilenceRun)

			segments[i] = seg
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return segments, nil
}
