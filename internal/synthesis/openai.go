package synthesis

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig holds configuration for the OpenAI speech backend.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // optional override for compatible gateways
	Model   string // default: "tts-1"
	Voice   string // fallback when a request carries no voice; default: "alloy"
}

// OpenAITTS synthesizes speech using OpenAI's speech API. Note the API only
// accepts its own voice names, so requests against this backend should carry
// an explicit voice override rather than rely on the Neural voice table.
type OpenAITTS struct {
	cfg    OpenAIConfig
	client *openai.Client
}

// NewOpenAITTS creates an OpenAITTS with sensible defaults applied.
func NewOpenAITTS(cfg OpenAIConfig) *OpenAITTS {
	if cfg.Model == "" {
		cfg.Model = string(openai.TTSModel1)
	}
	if cfg.Voice == "" {
		cfg.Voice = string(openai.VoiceAlloy)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAITTS{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

func (o *OpenAITTS) Name() string { return "openai-tts" }

// Synthesize converts one utterance to MP3 audio.
func (o *OpenAITTS) Synthesize(ctx context.Context, req Request) (*Result, error) {
	voice := req.Voice
	if voice == "" {
		voice = o.cfg.Voice
	}

	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(o.cfg.Model),
		Input:          req.Text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("speech request: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("synthesis returned no audio")
	}

	return &Result{
		Audio:       audio,
		ContentType: ContentTypeMP3,
	}, nil
}
