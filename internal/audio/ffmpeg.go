package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// FFmpeg shells out to an ffmpeg binary for the compressed codecs the
// backends return. Both directions stream through pipes so no intermediate
// files are written.
type FFmpeg struct {
	binPath string
}

func NewFFmpeg(binPath string) *FFmpeg {
	if binPath == "" {
		binPath = "ffmpeg"
	}
	return &FFmpeg{binPath: binPath}
}

// DecodeToPCM converts any ffmpeg-readable payload to mono 16-bit
// little-endian PCM at the given rate.
func (f *FFmpeg) DecodeToPCM(ctx context.Context, data []byte, sampleRate int) ([]byte, error) {
	cmd := exec.CommandContext(ctx, f.binPath,
		"-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"pipe:1",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg decode: %w: %s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg decode produced no output")
	}
	return stdout.Bytes(), nil
}

// EncodeMP3 writes mono 16-bit PCM out as an MP3 file at the given bitrate.
func (f *FFmpeg) EncodeMP3(ctx context.Context, pcm []byte, sampleRate, bitrateKbps int, outPath string) error {
	cmd := exec.CommandContext(ctx, f.binPath,
		"-hide_banner", "-loglevel", "error",
		"-y",
		"-f", "s16le",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-i", "pipe:0",
		"-codec:a", "libmp3lame",
		"-b:a", fmt.Sprintf("%dk", bitrateKbps),
		"-q:a", "0",
		outPath,
	)

	var stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(pcm)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg encode: %w: %s", err, stderr.String())
	}

	// ffmpeg can exit zero yet write nothing when the input stream is empty.
	info, err := os.Stat(outPath)
	if err != nil {
		return fmt.Errorf("ffmpeg encode: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("ffmpeg encode wrote an empty file")
	}
	return nil
}

// pcmBytes serializes samples as 16-bit little-endian for the pipe boundary.
func pcmBytes(s *Segment) []byte {
	out := make([]byte, 2*len(s.Buffer.Data))
	for i, v := range s.Buffer.Data {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(clampSample(v))))
	}
	return out
}
