package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server   ServerConfig
	TTS      TTSConfig
	Pipeline PipelineConfig
	Artifact ArtifactConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type TTSConfig struct {
	Backend string // "edge", "openai", or "local"

	EdgeBaseURL string
	EdgeAPIKey  string
	EdgeModel   string
	EdgeRPS     float64 // 0 disables the backend rate limit

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAIVoice   string

	LocalBinPath    string // default: "piper"
	LocalModelPath  string // required when backend=local
	LocalSampleRate int
}

type PipelineConfig struct {
	MaxConcurrentSynthesis int
	SynthesisTimeoutSec    int
	AudioWorkers           int
	MaxChunkLength         int
	NormalizeCacheSize     int
	ChunkCacheSize         int
	PauseMs                int
	SampleRate             int
	BitrateKbps            int
	FFmpegBin              string
}

type ArtifactConfig struct {
	Dir              string
	RetentionHours   int
	SweepIntervalMin int
}

func Load() (*Config, error) {
	// PORT is the platform-injected alternative to SERVER_PORT.
	portVar := "SERVER_PORT"
	if os.Getenv(portVar) == "" && os.Getenv("PORT") != "" {
		portVar = "PORT"
	}
	port, err := getEnvInt(portVar, 7860)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", portVar, err)
	}

	edgeRPS, err := getEnvFloat("TTS_EDGE_RPS", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid TTS_EDGE_RPS: %w", err)
	}

	localRate, err := getEnvInt("TTS_LOCAL_SAMPLE_RATE", 22050)
	if err != nil {
		return nil, fmt.Errorf("invalid TTS_LOCAL_SAMPLE_RATE: %w", err)
	}

	maxConcurrent, err := getEnvInt("MAX_CONCURRENT_TTS", 15)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_CONCURRENT_TTS: %w", err)
	}

	synthTimeout, err := getEnvInt("TTS_TIMEOUT_SEC", 60)
	if err != nil {
		return nil, fmt.Errorf("invalid TTS_TIMEOUT_SEC: %w", err)
	}

	audioWorkers, err := getEnvInt("AUDIO_WORKERS", 8)
	if err != nil {
		return nil, fmt.Errorf("invalid AUDIO_WORKERS: %w", err)
	}

	maxChunkLen, err := getEnvInt("MAX_CHUNK_LENGTH", 80)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_CHUNK_LENGTH: %w", err)
	}

	normCache, err := getEnvInt("NORMALIZE_CACHE_SIZE", 1024)
	if err != nil {
		return nil, fmt.Errorf("invalid NORMALIZE_CACHE_SIZE: %w", err)
	}

	chunkCache, err := getEnvInt("CHUNK_CACHE_SIZE", 512)
	if err != nil {
		return nil, fmt.Errorf("invalid CHUNK_CACHE_SIZE: %w", err)
	}

	pauseMs, err := getEnvInt("CHUNK_PAUSE_MS", 200)
	if err != nil {
		return nil, fmt.Errorf("invalid CHUNK_PAUSE_MS: %w", err)
	}

	sampleRate, err := getEnvInt("AUDIO_SAMPLE_RATE", 24000)
	if err != nil {
		return nil, fmt.Errorf("invalid AUDIO_SAMPLE_RATE: %w", err)
	}

	bitrate, err := getEnvInt("AUDIO_BITRATE_KBPS", 192)
	if err != nil {
		return nil, fmt.Errorf("invalid AUDIO_BITRATE_KBPS: %w", err)
	}

	retention, err := getEnvInt("AUDIO_RETENTION_HOURS", 1)
	if err != nil {
		return nil, fmt.Errorf("invalid AUDIO_RETENTION_HOURS: %w", err)
	}

	sweepInterval, err := getEnvInt("AUDIO_SWEEP_INTERVAL_MIN", 15)
	if err != nil {
		return nil, fmt.Errorf("invalid AUDIO_SWEEP_INTERVAL_MIN: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		TTS: TTSConfig{
			Backend:         getEnv("TTS_BACKEND", "edge"),
			EdgeBaseURL:     getEnv("TTS_EDGE_BASE_URL", "http://localhost:5050/v1"),
			EdgeAPIKey:      getEnv("TTS_EDGE_API_KEY", ""),
			EdgeModel:       getEnv("TTS_EDGE_MODEL", "tts-1"),
			EdgeRPS:         edgeRPS,
			OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:   getEnv("TTS_OPENAI_BASE_URL", ""),
			OpenAIModel:     getEnv("TTS_OPENAI_MODEL", ""),
			OpenAIVoice:     getEnv("TTS_OPENAI_VOICE", ""),
			LocalBinPath:    getEnv("TTS_LOCAL_PIPER_BIN", "piper"),
			LocalModelPath:  getEnv("TTS_LOCAL_PIPER_MODEL", ""),
			LocalSampleRate: localRate,
		},
		Pipeline: PipelineConfig{
			MaxConcurrentSynthesis: maxConcurrent,
			SynthesisTimeoutSec:    synthTimeout,
			AudioWorkers:           audioWorkers,
			MaxChunkLength:         maxChunkLen,
			NormalizeCacheSize:     normCache,
			ChunkCacheSize:         chunkCache,
			PauseMs:                pauseMs,
			SampleRate:             sampleRate,
			BitrateKbps:            bitrate,
			FFmpegBin:              getEnv("FFMPEG_BIN", "ffmpeg"),
		},
		Artifact: ArtifactConfig{
			Dir:              getEnv("AUDIO_DIR", "audio_output"),
			RetentionHours:   retention,
			SweepIntervalMin: sweepInterval,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var missing []string

	switch c.TTS.Backend {
	case "edge":
	case "openai":
		if c.TTS.OpenAIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	case "local":
		if c.TTS.LocalModelPath == "" {
			missing = append(missing, "TTS_LOCAL_PIPER_MODEL")
		}
	default:
		return fmt.Errorf("unknown TTS_BACKEND %q (want edge, openai, or local)", c.TTS.Backend)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}
