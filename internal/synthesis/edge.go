package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// EdgeConfig holds configuration for an edge-tts-compatible gateway.
type EdgeConfig struct {
	BaseURL        string  // default: "http://localhost:5050/v1"
	APIKey         string  // optional bearer token
	Model          string  // default: "tts-1"
	RequestsPerSec float64 // extra backend rate limit on top of the concurrency cap; 0 disables
}

// EdgeTTS synthesizes speech through an edge-tts gateway speaking the
// OpenAI audio API shape. These gateways accept the Neural voice identifiers
// from the voice table directly.
type EdgeTTS struct {
	cfg        EdgeConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewEdgeTTS creates an EdgeTTS with sensible defaults applied.
func NewEdgeTTS(cfg EdgeConfig) *EdgeTTS {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:5050/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "tts-1"
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1)
	}
	return &EdgeTTS{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		limiter: limiter,
	}
}

func (e *EdgeTTS) Name() string { return "edge-tts" }

// Synthesize posts one utterance and accumulates the streamed MP3 response.
func (e *EdgeTTS) Synthesize(ctx context.Context, req Request) (*Result, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	body := map[string]any{
		"model":           e.cfg.Model,
		"input":           req.Text,
		"voice":           req.Voice,
		"response_format": "mp3",
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", e.cfg.BaseURL+"/audio/speech", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if e.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)
	}

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("synthesis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("synthesis failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	// Read in fixed-size pieces so cancellation is observed mid-stream.
	var audio bytes.Buffer
	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		n, err := resp.Body.Read(buf)
		if n > 0 {
			audio.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read audio stream: %w", err)
		}
	}

	if audio.Len() == 0 {
		return nil, fmt.Errorf("synthesis returned no audio")
	}

	return &Result{
		Audio:       audio.Bytes(),
		ContentType: ContentTypeMP3,
	}, nil
}
