package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nikhilbhutani/voiceforge/internal/audio"
	"github.com/nikhilbhutani/voiceforge/internal/synthesis"
	"github.com/nikhilbhutani/voiceforge/internal/text"
	"github.com/nikhilbhutani/voiceforge/internal/voice"
	"github.com/nikhilbhutani/voiceforge/pkg/chunker"
)

var (
	// ErrEmptyText rejects requests whose text is empty or whitespace.
	ErrEmptyText = errors.New("text is empty")
	// ErrNoSpeakableText rejects requests with nothing left after cleanup.
	ErrNoSpeakableText = errors.New("no speakable text after cleanup")
)

// Request is one synthesis job.
type Request struct {
	Text     string
	Language string
	Voice    string
}

// Result points at the finished artifact.
type Result struct {
	Path       string
	Name       string
	Duration   time.Duration
	Voice      string
	ChunkCount int
}

// Synthesizer fans chunks out to a TTS backend.
type Synthesizer interface {
	SynthesizeAll(ctx context.Context, chunks []chunker.Chunk, voiceID string) ([]*synthesis.Result, error)
}

// Processor turns wire payloads into cleaned PCM segments.
type Processor interface {
	ProcessAll(ctx context.Context, encoded []audio.Encoded) ([]*audio.Segment, error)
}

// Assembler joins segments into the final artifact.
type Assembler interface {
	Assemble(ctx context.Context, segments []*audio.Segment) (*audio.Artifact, error)
}

// Pipeline runs the full text-to-artifact flow. The synthesizer and
// processor it holds carry process-wide concurrency caps, so a single
// Pipeline is shared by all requests.
type Pipeline struct {
	normalizer  *text.Normalizer
	chunker     *chunker.Chunker
	synthesizer Synthesizer
	processor   Processor
	assembler   Assembler
	log         *slog.Logger
}

func New(normalizer *text.Normalizer, ch *chunker.Chunker, synth Synthesizer, proc Processor, asm Assembler, log *slog.Logger) *Pipeline {
	return &Pipeline{
		normalizer:  normalizer,
		chunker:     ch,
		synthesizer: synth,
		processor:   proc,
		assembler:   asm,
		log:         log.With(slog.String("component", "pipeline")),
	}
}

// Generate turns raw text into a finished MP3 artifact. Any stage failure
// aborts the whole request; nothing partial is handed out.
func (p *Pipeline) Generate(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyText
	}

	start := time.Now()

	cleaned := p.normalizer.Normalize(req.Text)
	if cleaned == "" {
		return nil, ErrNoSpeakableText
	}

	voiceID := voice.Select(cleaned, req.Language, req.Voice)

	chunks := p.chunker.Split(cleaned)
	if len(chunks) == 0 {
		return nil, ErrNoSpeakableText
	}

	p.log.Info("request prepared",
		"text_length", len(req.Text),
		"normalized_length", len(cleaned),
		"voice", voiceID,
		"chunks", len(chunks))

	synthesized, err := p.synthesizer.SynthesizeAll(ctx, chunks, voiceID)
	if err != nil {
		return nil, fmt.Errorf("synthesis: %w", err)
	}

	encoded := make([]audio.Encoded, len(synthesized))
	for i, res := range synthesized {
		encoded[i] = audio.Encoded{Data: res.Audio, MIME: res.ContentType, SampleRate: res.SampleRate}
	}

	segments, err := p.processor.ProcessAll(ctx, encoded)
	if err != nil {
		return nil, fmt.Errorf("post-processing: %w", err)
	}

	art, err := p.assembler.Assemble(ctx, segments)
	if err != nil {
		return nil, fmt.Errorf("assembly: %w", err)
	}

	p.log.Info("generation complete",
		"voice", voiceID,
		"chunks", len(chunks),
		"audio_duration", art.Duration.Round(time.Millisecond).String(),
		"elapsed", time.Since(start).Round(time.Millisecond).String())

	return &Result{
		Path:       art.Path,
		Name:       art.Name,
		Duration:   art.Duration,
		Voice:      voiceID,
		ChunkCount: len(chunks),
	}, nil
}
