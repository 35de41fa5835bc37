package audio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessAll(t *testing.T) {
	d := NewDecoder(NewFFmpeg(""), 16000)
	p := NewProcessor(d, DefaultProcessorOptions(), discardLogger())

	// Lengths identify the chunks after the samples are rescaled.
	encoded := make([]Encoded, 3)
	for i := range encoded {
		samples := make([]int16, (i+1)*400)
		for j := range samples {
			samples[j] = 1000
		}
		encoded[i] = Encoded{Data: pcmData(samples...), MIME: "audio/l16", SampleRate: 16000}
	}

	segments, err := p.ProcessAll(context.Background(), encoded)
	require.NoError(t, err)
	require.Len(t, segments, 3)

	for i, seg := range segments {
		assert.Len(t, seg.Samples(), (i+1)*400)
		assert.Equal(t, 16000, seg.SampleRate())
	}
}

func TestProcessAllNormalizes(t *testing.T) {
	d := NewDecoder(NewFFmpeg(""), 16000)
	p := NewProcessor(d, DefaultProcessorOptions(), discardLogger())

	samples := make([]int16, 800)
	for j := range samples {
		samples[j] = 4000
	}

	segments, err := p.ProcessAll(context.Background(), []Encoded{
		{Data: pcmData(samples...), MIME: "audio/l16", SampleRate: 16000},
	})
	require.NoError(t, err)

	assert.Greater(t, maxAbs(segments[0].Samples()), 30000)
}

func TestProcessAllFailsWholeBatch(t *testing.T) {
	d := NewDecoder(NewFFmpeg(""), 16000)
	p := NewProcessor(d, DefaultProcessorOptions(), discardLogger())

	encoded := []Encoded{
		{Data: pcmData(1000, 1000), MIME: "audio/l16", SampleRate: 16000},
		{MIME: "audio/l16"},
	}

	segments, err := p.ProcessAll(context.Background(), encoded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk 1")
	assert.Nil(t, segments)
}

func TestProcessAllEmpty(t *testing.T) {
	d := NewDecoder(NewFFmpeg(""), 16000)
	p := NewProcessor(d, DefaultProcessorOptions(), discardLogger())

	segments, err := p.ProcessAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, segments)
}
