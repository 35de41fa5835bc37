package audio

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// AssemblerOptions tunes the final join and export.
type AssemblerOptions struct {
	Pause       time.Duration
	BitrateKbps int
	Compressor  CompressorOptions
}

func DefaultAssemblerOptions() AssemblerOptions {
	return AssemblerOptions{
		Pause:       200 * time.Millisecond,
		BitrateKbps: 192,
		Compressor:  DefaultCompressorOptions(),
	}
}

// Artifact is a finished MP3 on disk.
type Artifact struct {
	Path     string
	Name     string
	Duration time.Duration
}

// Assembler joins processed segments into the final artifact.
type Assembler struct {
	dir    string
	ffmpeg *FFmpeg
	opts   AssemblerOptions
	log    *slog.Logger
}

func NewAssembler(dir string, ffmpeg *FFmpeg, opts AssemblerOptions, log *slog.Logger) *Assembler {
	return &Assembler{
		dir:    dir,
		ffmpeg: ffmpeg,
		opts:   opts,
		log:    log.With(slog.String("component", "assembler")),
	}
}

// Assemble joins the segments with pauses, compresses the joined audio, then
// encodes it to a uniquely named MP3 in the artifact directory. The file
// exists only on success; a failed export is removed.
func (a *Assembler) Assemble(ctx context.Context, segments []*Segment) (*Artifact, error) {
	joined, err := Concat(segments, a.opts.Pause)
	if err != nil {
		return nil, err
	}
	CompressDynamicRange(joined, a.opts.Compressor)

	if len(joined.Buffer.Data) == 0 {
		return nil, errors.New("joined audio is empty")
	}

	name := uuid.New().String() + ".mp3"
	path := filepath.Join(a.dir, name)

	if err := a.ffmpeg.EncodeMP3(ctx, pcmBytes(joined), joined.SampleRate(), a.opts.BitrateKbps, path); err != nil {
		os.Remove(path)
		return nil, err
	}

	art := &Artifact{Path: path, Name: name, Duration: joined.Duration()}
	a.log.Info("artifact written",
		"name", name,
		"duration", art.Duration.Round(time.Millisecond).String(),
		"segments", len(segments))
	return art, nil
}
