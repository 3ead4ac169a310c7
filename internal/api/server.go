package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vsenadev/sanitary-surveillance/internal/sequencer"
)

// Router wraps a configured Gin engine and exposes it as an http.Handler.
type Router struct {
	engine *gin.Engine
}

// NewRouter constructs a Router with the full middleware chain and all routes
// registered. Middleware order:
//  1. Recovery — panic → 500
//  2. Tracing — trace context per request
//  3. RequestLogger — structured request/response logging
func NewRouter(probers []sequencer.Prober, results resultLoader, transcript transcriptTailer) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(Recovery(slog.Default()))
	engine.Use(Tracing("irisboot"))
	engine.Use(RequestLogger(slog.Default()))

	h := &Handler{
		probers:    probers,
		results:    results,
		transcript: transcript,
	}

	engine.GET("/health", h.Health)
	engine.GET("/health/deep", h.DeepHealth)
	engine.GET("/status", h.Status)
	engine.GET("/transcript", h.Transcript)

	return &Router{engine: engine}
}

// Handler returns the underlying http.Handler for use with net/http servers.
func (r *Router) Handler() http.Handler {
	return r.engine
}
