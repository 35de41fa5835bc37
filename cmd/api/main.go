package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikhilbhutani/voiceforge/internal/api"
	"github.com/nikhilbhutani/voiceforge/internal/artifact"
	"github.com/nikhilbhutani/voiceforge/internal/audio"
	"github.com/nikhilbhutani/voiceforge/internal/config"
	"github.com/nikhilbhutani/voiceforge/internal/pipeline"
	"github.com/nikhilbhutani/voiceforge/internal/synthesis"
	"github.com/nikhilbhutani/voiceforge/internal/text"
	"github.com/nikhilbhutani/voiceforge/pkg/chunker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	store, err := artifact.NewStore(cfg.Artifact.Dir, logger)
	if err != nil {
		slog.Error("failed to prepare artifact directory", "error", err)
		os.Exit(1)
	}

	retention := time.Duration(cfg.Artifact.RetentionHours) * time.Hour
	store.Sweep(retention)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go store.Run(sweepCtx, time.Duration(cfg.Artifact.SweepIntervalMin)*time.Minute, retention)

	provider, err := newProvider(cfg.TTS)
	if err != nil {
		slog.Error("failed to configure TTS backend", "error", err)
		os.Exit(1)
	}
	slog.Info("TTS backend ready", "backend", provider.Name())

	ffmpeg := audio.NewFFmpeg(cfg.Pipeline.FFmpegBin)
	decoder := audio.NewDecoder(ffmpeg, cfg.Pipeline.SampleRate)

	scheduler := synthesis.NewScheduler(
		provider,
		cfg.Pipeline.MaxConcurrentSynthesis,
		time.Duration(cfg.Pipeline.SynthesisTimeoutSec)*time.Second,
		logger,
	)

	procOpts := audio.DefaultProcessorOptions()
	procOpts.Workers = cfg.Pipeline.AudioWorkers
	processor := audio.NewProcessor(decoder, procOpts, logger)

	asmOpts := audio.DefaultAssemblerOptions()
	asmOpts.Pause = time.Duration(cfg.Pipeline.PauseMs) * time.Millisecond
	asmOpts.BitrateKbps = cfg.Pipeline.BitrateKbps
	assembler := audio.NewAssembler(store.Dir(), ffmpeg, asmOpts, logger)

	pipe := pipeline.New(
		text.NewNormalizer(cfg.Pipeline.NormalizeCacheSize),
		chunker.New(chunker.Options{
			MaxChunkLength: cfg.Pipeline.MaxChunkLength,
			CacheSize:      cfg.Pipeline.ChunkCacheSize,
		}),
		scheduler,
		processor,
		assembler,
		logger,
	)

	router := api.NewRouter(pipe, store, logger)
	handler := router.Setup()

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: handler,
		// Long documents legitimately take minutes to synthesize.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting TTS server", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}

	stopSweeper()
	router.Stop()
	slog.Info("server stopped")
}

func newProvider(cfg config.TTSConfig) (synthesis.Provider, error) {
	switch cfg.Backend {
	case "edge":
		return synthesis.NewEdgeTTS(synthesis.EdgeConfig{
			BaseURL:        cfg.EdgeBaseURL,
			APIKey:         cfg.EdgeAPIKey,
			Model:          cfg.EdgeModel,
			RequestsPerSec: cfg.EdgeRPS,
		}), nil
	case "openai":
		return synthesis.NewOpenAITTS(synthesis.OpenAIConfig{
			APIKey:  cfg.OpenAIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Voice:   cfg.OpenAIVoice,
		}), nil
	case "local":
		return synthesis.NewLocalTTS(synthesis.LocalConfig{
			BinPath:    cfg.LocalBinPath,
			ModelPath:  cfg.LocalModelPath,
			SampleRate: cfg.LocalSampleRate,
		}), nil
	default:
		return nil, fmt.Errorf("unknown TTS backend %q", cfg.Backend)
	}
}
