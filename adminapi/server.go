// Package adminapi exposes the session's verbs over HTTP, generalizing the
// teacher's /api/v1/tags POST/DELETE pair into one route per session verb
// (SPEC_FULL §6.3). This surface is additive: it is never started unless
// the CLI is invoked with --admin-addr, and no core scenario depends on it.
package adminapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fatih/structs"
	"github.com/gin-gonic/gin"

	"github.com/dtgillespie/llrp-client/llrp"
	"github.com/dtgillespie/llrp-client/metrics"
	"github.com/dtgillespie/llrp-client/session"
)

// Server wires a *session.Session to an HTTP router.
type Server struct {
	sess   *session.Session
	rospec llrp.ROSpecConfig
	engine *gin.Engine
}

// New builds a Server. rospec is the configured rospec section; the
// enable/start/stop routes operate against its ROSpecID.
func New(sess *session.Session, rospec llrp.ROSpecConfig) *Server {
	s := &Server{sess: sess, rospec: rospec, engine: gin.Default()}

	v1 := s.engine.Group("/api/v1")
	v1.GET("/capabilities", s.getCapabilities)
	v1.GET("/config", s.getConfig)
	v1.POST("/rospec/enable", s.enableROSpec)
	v1.POST("/rospec/start", s.startROSpec)
	v1.POST("/rospec/stop", s.stopROSpec)
	v1.DELETE("/rospec/:id", s.deleteROSpec)
	v1.GET("/status", s.status)

	s.engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	return s
}

// Run starts the HTTP server on addr, blocking until it exits.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

const verbTimeout = 5 * time.Second

func (s *Server) getCapabilities(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), verbTimeout)
	defer cancel()

	caps, err := s.sess.GetReaderCapabilities(ctx)
	if err != nil {
		metrics.VerbErrors.WithLabelValues("get_reader_capabilities", errKind(err)).Inc()
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	metrics.VerbsSent.WithLabelValues("get_reader_capabilities").Inc()
	c.JSON(http.StatusOK, structs.Map(caps))
}

func (s *Server) getConfig(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), verbTimeout)
	defer cancel()

	cfg, err := s.sess.GetReaderConfig(ctx)
	if err != nil {
		metrics.VerbErrors.WithLabelValues("get_reader_config", errKind(err)).Inc()
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	metrics.VerbsSent.WithLabelValues("get_reader_config").Inc()
	c.JSON(http.StatusOK, structs.Map(cfg))
}

func (s *Server) enableROSpec(c *gin.Context) {
	s.runStatusVerb(c, "enable_rospec", func(ctx context.Context) (llrp.LLRPStatus, error) {
		return s.sess.EnableROSpec(ctx, s.rospec.ROSpecID)
	})
}

func (s *Server) startROSpec(c *gin.Context) {
	s.runStatusVerb(c, "start_rospec", func(ctx context.Context) (llrp.LLRPStatus, error) {
		return s.sess.StartROSpec(ctx, s.rospec.ROSpecID)
	})
}

func (s *Server) stopROSpec(c *gin.Context) {
	s.runStatusVerb(c, "stop_rospec", func(ctx context.Context) (llrp.LLRPStatus, error) {
		return s.sess.StopROSpec(ctx, s.rospec.ROSpecID)
	})
}

func (s *Server) deleteROSpec(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a uint32"})
		return
	}
	s.runStatusVerb(c, "delete_rospec", func(ctx context.Context) (llrp.LLRPStatus, error) {
		return s.sess.DeleteROSpec(ctx, uint32(id))
	})
}

func (s *Server) runStatusVerb(c *gin.Context, verb string, call func(context.Context) (llrp.LLRPStatus, error)) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), verbTimeout)
	defer cancel()

	status, err := call(ctx)
	if err != nil {
		metrics.VerbErrors.WithLabelValues(verb, errKind(err)).Inc()
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	metrics.VerbsSent.WithLabelValues(verb).Inc()
	if !status.Success() {
		c.JSON(http.StatusConflict, gin.H{"status_code": status.StatusCode, "error_desc": status.ErrorDesc})
		return
	}
	c.Status(http.StatusAccepted)
}

func (s *Server) status(c *gin.Context) {
	lastErr := ""
	if err := s.sess.LastError(); err != nil {
		lastErr = err.Error()
	}
	c.JSON(http.StatusOK, gin.H{
		"last_error":     lastErr,
		"last_report_at": s.sess.LastReportAt(),
	})
}

func errKind(err error) string {
	switch {
	case errors.Is(err, session.ErrTimedOut):
		return "timeout"
	case errors.Is(err, session.ErrDisconnected):
		return "disconnected"
	default:
		return "other"
	}
}
