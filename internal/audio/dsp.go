package audio

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// dbfsReference is full scale for 16-bit samples.
const dbfsReference = 32768.0

// frameMs is the analysis window for silence detection.
const frameMs = 10

// NormalizePeak scales samples in place so the peak sits headroomDB below
// full scale. Silent segments are left untouched.
func NormalizePeak(s *Segment, headroomDB float64) {
	peak := 0
	for _, v := range s.Buffer.Data {
		if v > peak {
			peak = v
		} else if -v > peak {
			peak = -v
		}
	}
	if peak == 0 {
		return
	}
	target := dbfsReference * math.Pow(10, -headroomDB/20)
	gain := target / float64(peak)
	for i, v := range s.Buffer.Data {
		s.Buffer.Data[i] = clampSample(int(math.Round(float64(v) * gain)))
	}
}

// TrimSilence drops leading and trailing stretches whose frame RMS stays
// under thresholdDB, provided the stretch lasts at least minRun. Interior
// pauses are preserved.
func TrimSilence(s *Segment, thresholdDB float64, minRun time.Duration) {
	data := s.Buffer.Data
	frameLen := s.SampleRate() * frameMs / 1000
	if frameLen == 0 || len(data) == 0 {
		return
	}

	lead := 0
	for off := 0; off < len(data); off += frameLen {
		end := off + frameLen
		if end > len(data) {
			end = len(data)
		}
		if frameDBFS(data[off:end]) >= thresholdDB {
			break
		}
		lead++
	}

	trail := 0
	for off := len(data); off > 0; off -= frameLen {
		start := off - frameLen
		if start < 0 {
			start = 0
		}
		if frameDBFS(data[start:off]) >= thresholdDB {
			break
		}
		trail++
	}

	minFrames := int(minRun.Milliseconds()) / frameMs

	begin := 0
	if lead >= minFrames {
		begin = lead * frameLen
		if begin > len(data) {
			begin = len(data)
		}
	}
	end := len(data)
	if trail >= minFrames {
		end = len(data) - trail*frameLen
		if end < begin {
			end = begin
		}
	}
	s.Buffer.Data = data[begin:end]
}

// frameDBFS is the RMS level of one frame relative to full scale.
func frameDBFS(frame []int) float64 {
	if len(frame) == 0 {
		return math.Inf(-1)
	}
	var sum float64
	for _, v := range frame {
		f := float64(v)
		sum += f * f
	}
	rms := math.Sqrt(sum / float64(len(frame)))
	if rms == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(rms/dbfsReference)
}

// Concat joins segments in input order with a pause of silence between
// consecutive segments, none after the last. All segments must share a
// sample rate.
func Concat(segments []*Segment, pause time.Duration) (*Segment, error) {
	if len(segments) == 0 {
		return nil, errors.New("no segments to join")
	}
	rate := segments[0].SampleRate()
	total := 0
	for i, seg := range segments {
		if seg.SampleRate() != rate {
			return nil, fmt.Errorf("segment %d: sample rate %d does not match %d", i, seg.SampleRate(), rate)
		}
		total += len(seg.Buffer.Data)
	}
	pauseSamples := int(pause.Milliseconds()) * rate / 1000
	total += pauseSamples * (len(segments) - 1)

	joined := make([]int, 0, total)
	for i, seg := range segments {
		if i > 0 && pauseSamples > 0 {
			joined = append(joined, make([]int, pauseSamples)...)
		}
		joined = append(joined, seg.Buffer.Data...)
	}
	return NewSegment(joined, rate), nil
}

// CompressorOptions tunes the dynamic range compressor.
type CompressorOptions struct {
	ThresholdDB float64
	Ratio       float64
	AttackMs    float64
	ReleaseMs   float64
}

// DefaultCompressorOptions carries the customary speech settings.
func DefaultCompressorOptions() CompressorOptions {
	return CompressorOptions{ThresholdDB: -20, Ratio: 4, AttackMs: 5, ReleaseMs: 50}
}

// CompressDynamicRange applies feed-forward compression in place. An
// envelope follower tracks the signal level; overshoot past the threshold is
// reduced toward 1/ratio, with attack and release smoothing the gain change.
func CompressDynamicRange(s *Segment, opts CompressorOptions) {
	if opts.Ratio <= 1 || len(s.Buffer.Data) == 0 {
		return
	}
	rate := float64(s.SampleRate())
	attack := envelopeCoeff(opts.AttackMs, rate)
	release := envelopeCoeff(opts.ReleaseMs, rate)
	threshold := dbfsReference * math.Pow(10, opts.ThresholdDB/20)
	slope := 1 - 1/opts.Ratio

	env := 0.0
	for i, v := range s.Buffer.Data {
		level := math.Abs(float64(v))
		if level > env {
			env = attack*env + (1-attack)*level
		} else {
			env = release*env + (1-release)*level
		}
		if env <= threshold {
			continue
		}
		overshootDB := 20 * math.Log10(env/threshold)
		gain := math.Pow(10, -slope*overshootDB/20)
		s.Buffer.Data[i] = clampSample(int(math.Round(float64(v) * gain)))
	}
}

// envelopeCoeff is the one-pole smoothing coefficient for a time constant.
func envelopeCoeff(ms, sampleRate float64) float64 {
	if ms <= 0 {
		return 0
	}
	return math.Exp(-1 / (sampleRate * ms / 1000))
}

func clampSample(v int) int {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return v
}
