package audio

import (
	"time"

	gaudio "github.com/go-audio/audio"
)

// Segment is a decoded chunk of speech: mono 16-bit PCM held in a go-audio
// buffer alongside its sample rate.
type Segment struct {
	Buffer *gaudio.IntBuffer
}

func NewSegment(samples []int, sampleRate int) *Segment {
	return &Segment{
		Buffer: &gaudio.IntBuffer{
			Data:           samples,
			Format:         &gaudio.Format{NumChannels: 1, SampleRate: sampleRate},
			SourceBitDepth: 16,
		},
	}
}

func (s *Segment) SampleRate() int { return s.Buffer.Format.SampleRate }

func (s *Segment) Samples() []int { return s.Buffer.Data }

// Duration is the playback length derived from the sample count.
func (s *Segment) Duration() time.Duration {
	rate := s.Buffer.Format.SampleRate
	if rate == 0 {
		return 0
	}
	return time.Duration(len(s.Buffer.Data)) * time.Second / time.Duration(rate)
}
