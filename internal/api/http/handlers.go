package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GriffinCanCode/MineBot/bridge/internal/dispatch"
	"github.com/GriffinCanCode/MineBot/bridge/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/MineBot/bridge/internal/session"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// SessionLister lists live game sessions
type SessionLister interface {
	List() []session.Info
	Len() int
}

// PendingCounter reports queued scheduled commands
type PendingCounter interface {
	Pending() int
}

// Inference is the subset of the inference client the ops API needs
type Inference interface {
	Health(ctx context.Context) error
	BreakerState() resilience.State
}

// WhitelistSource exposes the active command whitelist
type WhitelistSource interface {
	Tokens() []string
}

// Handlers contains all ops HTTP handlers
type Handlers struct {
	sessions  SessionLister
	scheduler PendingCounter
	inference Inference
	whitelist WhitelistSource
	gatherer  prometheus.Gatherer
	started   time.Time
}

// NewHandlers creates a new handler set. A nil gatherer uses the default registry.
func NewHandlers(sessions SessionLister, scheduler PendingCounter, inference Inference, whitelist WhitelistSource, gatherer prometheus.Gatherer) *Handlers {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handlers{
		sessions:  sessions,
		scheduler: scheduler,
		inference: inference,
		whitelist: whitelist,
		gatherer:  gatherer,
		started:   time.Now(),
	}
}

// Register mounts the handlers on router
func (h *Handlers) Register(router gin.IRouter) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/health/inference", h.InferenceHealth)
	router.GET("/sessions", h.ListSessions)
	router.GET("/whitelist", h.Whitelist)
	router.GET("/metrics", h.Metrics())
}

// Root identifies the service
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "MineBot Bridge (Go)",
		"version": Version,
	})
}

// Health reports local state without touching the inference service
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"sessions":  h.sessions.Len(),
		"pending":   h.scheduler.Pending(),
		"inference": gin.H{"breaker": h.inference.BreakerState().String()},
		"uptime":    time.Since(h.started).Round(time.Second).String(),
	})
}

// InferenceHealth probes the inference service
func (h *Handlers) InferenceHealth(c *gin.Context) {
	if err := h.inference.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  dispatch.Describe(err),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListSessions lists connected game clients
func (h *Handlers) ListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sessions": h.sessions.List(),
		"count":    h.sessions.Len(),
	})
}

// Whitelist lists the accepted base tokens
func (h *Handlers) Whitelist(c *gin.Context) {
	tokens := h.whitelist.Tokens()
	c.JSON(http.StatusOK, gin.H{
		"commands": tokens,
		"count":    len(tokens),
	})
}

// Metrics serves the Prometheus exposition format
func (h *Handlers) Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
}
