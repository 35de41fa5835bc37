package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nikhilbhutani/voiceforge/internal/api/handlers"
	"github.com/nikhilbhutani/voiceforge/internal/api/middleware"
	"github.com/nikhilbhutani/voiceforge/internal/artifact"
	"github.com/nikhilbhutani/voiceforge/internal/pipeline"
)

type Router struct {
	mux   *chi.Mux
	pipe  *pipeline.Pipeline
	store *artifact.Store
	log   *slog.Logger
	rl    *middleware.RateLimiter
}

func NewRouter(pipe *pipeline.Pipeline, store *artifact.Store, log *slog.Logger) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		pipe:  pipe,
		store: store,
		log:   log,
		rl:    middleware.NewRateLimiter(10, 20),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(rt.log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(rt.rl.Limit)

	health := handlers.NewHealthHandler(rt.store)
	r.Get("/", health.Info)
	r.Get("/health", health.Health)

	tts := handlers.NewTTSHandler(rt.pipe, rt.log)
	r.Get("/voices", tts.Voices)
	r.Post("/generate-tts", tts.Generate)

	docs := handlers.NewDocumentHandler(rt.pipe, rt.log)
	r.Post("/generate-tts-file", docs.Narrate)

	return r
}

// Stop releases router-owned background work.
func (rt *Router) Stop() { rt.rl.Stop() }
