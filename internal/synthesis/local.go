package synthesis

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// LocalConfig holds configuration for the local Piper backend.
type LocalConfig struct {
	BinPath    string // default: "piper"
	ModelPath  string // required: path to the .onnx voice model
	SampleRate int    // rate of the model's raw output; default: 22050
}

// LocalTTS synthesizes speech with a local Piper binary via subprocess.
// The voice is fixed by the model file; per-request voice identifiers are
// ignored.
type LocalTTS struct {
	cfg LocalConfig
}

// NewLocalTTS creates a LocalTTS backed by a local Piper binary.
func NewLocalTTS(cfg LocalConfig) *LocalTTS {
	if cfg.BinPath == "" {
		cfg.BinPath = "piper"
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 22050
	}
	return &LocalTTS{cfg: cfg}
}

func (l *LocalTTS) Name() string { return "local-piper" }

// Synthesize pipes text into Piper via stdin and returns the raw PCM output.
func (l *LocalTTS) Synthesize(ctx context.Context, req Request) (*Result, error) {
	if l.cfg.ModelPath == "" {
		return nil, fmt.Errorf("piper model path is required (set TTS_LOCAL_PIPER_MODEL)")
	}

	cmd := exec.CommandContext(ctx, l.cfg.BinPath, "--model", l.cfg.ModelPath, "--output-raw")

	cmd.Stdin = strings.NewReader(req.Text)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("piper failed: %w (stderr: %s)", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("synthesis returned no audio")
	}

	return &Result{
		Audio:       stdout.Bytes(),
		ContentType: ContentTypePCM,
		SampleRate:  l.cfg.SampleRate,
	}, nil
}
