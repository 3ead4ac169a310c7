package api

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vsenadev/sanitary-surveillance/internal/sequencer"
)

// resultLoader is the subset of *runstore.Store used by the HTTP handlers.
// Declaring it as an interface allows test doubles to be injected.
type resultLoader interface {
	Load() (*sequencer.SequenceResult, error)
}

// transcriptTailer is satisfied by *transcript.Transcript.
type transcriptTailer interface {
	Tail(n int) ([]string, error)
}

// Handler holds the dependencies shared across all HTTP handlers.
type Handler struct {
	probers    []sequencer.Prober
	results    resultLoader
	transcript transcriptTailer
}

// Health handles GET /health.
// It always returns 200 — this is the liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"mode":   "shallow",
	})
}

// DeepHealth handles GET /health/deep.
// It probes every configured instance port and returns 200 only when all
// probes are OK.
func (h *Handler) DeepHealth(c *gin.Context) {
	probes := sequencer.RunDeepHealth(c.Request.Context(), h.probers)

	allOK := true
	for _, p := range probes {
		if !p.OK {
			allOK = false
			break
		}
	}

	status := "healthy"
	code := http.StatusOK
	if !allOK {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status": status,
		"ports":  probes,
	})
}

// Status handles GET /status.
// It reports the persisted result of the last boot sequence run, or 404 when
// no sequence has run on this volume yet.
func (h *Handler) Status(c *gin.Context) {
	res, err := h.results.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"status": "no-run"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// Transcript handles GET /transcript?lines=n.
// It returns the tail of the import transcript; n defaults to 100.
func (h *Handler) Transcript(c *gin.Context) {
	n := 100
	if raw := c.Query("lines"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "lines must be a non-negative integer"})
			return
		}
		n = parsed
	}

	lines, err := h.transcript.Tail(n)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"lines": lines})
}
