// Package http provides the REST surface: session lifecycle, one-shot
// command execution, tab completion and health.
package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/termos-project/termos/internal/monitoring"
	"github.com/termos-project/termos/internal/session"
	"github.com/termos-project/termos/internal/shell"
)

// Handler serves the REST routes.
type Handler struct {
	sessions *session.Manager
	metrics  *monitoring.Metrics
}

// NewHandler creates a REST handler.
func NewHandler(sessions *session.Manager, metrics *monitoring.Metrics) *Handler {
	return &Handler{sessions: sessions, metrics: metrics}
}

// Register mounts all REST routes on the router.
func (h *Handler) Register(router *gin.Engine) {
	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST("/sessions", h.createSession)
	router.DELETE("/sessions/:id", h.closeSession)
	router.POST("/execute", h.execute)
	router.GET("/completions", h.completions)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": h.sessions.Count(),
		"uptime":   h.metrics.Uptime().String(),
	})
}

func (h *Handler) createSession(c *gin.Context) {
	sess := h.sessions.Create()
	user, path := sess.Prompt()
	c.JSON(http.StatusCreated, gin.H{
		"session_id": sess.ID,
		"user":       user,
		"path":       path,
	})
}

func (h *Handler) closeSession(c *gin.Context) {
	if !h.sessions.Close(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"closed": true})
}

type executeRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Line      string `json:"line"`
}

// execute runs one command line. Sentinel outputs are decoded into a
// typed field so REST clients never see the raw marker strings.
func (h *Handler) execute(c *gin.Context) {
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, ok := h.sessions.Get(req.SessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	output := sess.Execute(req.Line)
	user, path := sess.Prompt()

	resp := gin.H{"output": output, "user": user, "path": path}
	switch {
	case output == shell.SentinelClear:
		resp["output"] = ""
		resp["sentinel"] = "clear"
	case output == shell.SentinelViOpened:
		resp["output"] = ""
		resp["sentinel"] = "vi_opened"
	case strings.HasPrefix(output, shell.SentinelUserSwitched):
		resp["output"] = ""
		resp["sentinel"] = "user_switched"
		resp["user"] = strings.TrimPrefix(output, shell.SentinelUserSwitched)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) completions(c *gin.Context) {
	sess, ok := h.sessions.Get(c.Query("session_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, sess.Completions(c.Query("input")))
}
