package synthesis

import "context"

// Audio content types produced by the backends.
const (
	ContentTypeMP3 = "audio/mpeg"
	ContentTypeWAV = "audio/wav"
	ContentTypePCM = "audio/l16" // raw signed 16-bit little-endian mono
)

// Request holds the parameters for synthesizing one utterance.
type Request struct {
	Text  string
	Voice string
}

// Result holds the synthesized audio for one utterance.
type Result struct {
	Audio       []byte
	ContentType string
	SampleRate  int // set for raw PCM, where the bytes carry no header
}

// Provider is the interface for speech synthesis backends.
type Provider interface {
	Synthesize(ctx context.Context, req Request) (*Result, error)
	Name() string
}
