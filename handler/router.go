package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/keyset/ctxutil"
	"github.com/ncobase/keyset/logging/logger"
	"github.com/ncobase/keyset/net/resp"
)

// Register mounts the record routes under /api/v1 and the operational
// routes at the root.
func (h *Handler) Register(e *gin.Engine) {
	api := e.Group("/api/v1")
	api.GET("/records", h.ListByID)
	api.GET("/records/by-field", h.ListByField)
	api.GET("/records/connection", h.Connection)

	e.GET("/healthz", h.Health)
	if h.metrics != nil {
		e.GET("/metrics", gin.WrapH(h.metrics))
	}
	e.NoRoute(func(c *gin.Context) {
		resp.Fail(c.Writer, resp.NotFound("route not found"))
	})
}

// NewEngine returns a gin engine with trace ids, request logging, panic
// recovery and the handler's routes.
func NewEngine(h *Handler) *gin.Engine {
	e := gin.New()
	e.Use(ctxutil.TraceMiddleware(), requestLogger(), gin.Recovery())
	h.Register(e)
	return e
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}
