package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/go-audio/wav"
)

// Encoded is one synthesized chunk as it came off the backend, still in its
// wire format.
type Encoded struct {
	Data       []byte
	MIME       string
	SampleRate int // only meaningful for raw PCM payloads
}

// Decoder turns backend payloads into mono PCM segments. WAV and raw PCM are
// handled natively; everything else goes through ffmpeg.
type Decoder struct {
	ffmpeg     *FFmpeg
	sampleRate int
}

func NewDecoder(ffmpeg *FFmpeg, sampleRate int) *Decoder {
	if sampleRate <= 0 {
		sampleRate = 24000
	}
	return &Decoder{ffmpeg: ffmpeg, sampleRate: sampleRate}
}

func (d *Decoder) Decode(ctx context.Context, enc Encoded) (*Segment, error) {
	if len(enc.Data) == 0 {
		return nil, errors.New("empty audio payload")
	}
	switch {
	case enc.MIME == "audio/l16":
		rate := enc.SampleRate
		if rate <= 0 {
			rate = d.sampleRate
		}
		return decodePCM(enc.Data, rate), nil
	case enc.MIME == "audio/wav" || isRIFF(enc.Data):
		return decodeWAV(enc.Data)
	default:
		pcm, err := d.ffmpeg.DecodeToPCM(ctx, enc.Data, d.sampleRate)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", enc.MIME, err)
		}
		return decodePCM(pcm, d.sampleRate), nil
	}
}

func decodeWAV(data []byte) (*Segment, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	if buf.Format == nil || buf.Format.SampleRate == 0 {
		return nil, errors.New("decode wav: missing format")
	}
	samples := buf.Data
	if buf.Format.NumChannels > 1 {
		samples = downmix(samples, buf.Format.NumChannels)
	}
	return NewSegment(samples, buf.Format.SampleRate), nil
}

// downmix averages interleaved channels into one.
func downmix(samples []int, channels int) []int {
	mono := make([]int, 0, len(samples)/channels)
	for i := 0; i+channels <= len(samples); i += channels {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += samples[i+c]
		}
		mono = append(mono, sum/channels)
	}
	return mono
}

func decodePCM(data []byte, sampleRate int) *Segment {
	// Odd trailing byte cannot form a 16-bit sample.
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}
	samples := make([]int, len(data)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(data[2*i:])))
	}
	return NewSegment(samples, sampleRate)
}

func isRIFF(data []byte) bool {
	return len(data) >= 12 &&
		bytes.Equal(data[:4], []byte("RIFF")) &&
		bytes.Equal(data[8:12], []byte("WAVE"))
}
