package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/katalvlaran/gridroute/render"
	"github.com/katalvlaran/gridroute/worker"
	"github.com/katalvlaran/gridroute/world"
)

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests)
	r.GET("/healthz", s.health)
	r.POST("/v1/route", s.route)
	r.POST("/v1/invalidate", s.invalidateHandler)
	r.GET("/v1/results", s.results)
	return r
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.Debug("server: request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.FullPath()),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("latency", time.Since(start)))
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"epoch":   s.w.Epoch(),
		"pending": s.w.Pending(),
	})
}

func (s *Server) route(c *gin.Context) {
	sc, err := world.DecodeScenario(c.Request.Body, s.cat)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	id, ch, err := s.submit(worker.Request{Medium: sc.Medium, Snapshot: sc.Snapshot, From: sc.From, To: sc.To})
	switch {
	case errors.Is(err, worker.ErrQueueFull), errors.Is(err, worker.ErrStopped):
		c.JSON(http.StatusServiceUnavailable, errorBody{Error: err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()
	select {
	case d := <-ch:
		if d.err != nil {
			c.JSON(http.StatusConflict, errorBody{ID: id.String(), Error: d.err.Error()})
			return
		}
		body := encodeResult(d.res)
		if c.Query("map") != "" && d.res.Err == nil {
			body.Map = render.ASCII(sc.Snapshot, d.res.Outcome.Plan)
		}
		status := http.StatusOK
		if d.res.Err != nil {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, body)
	case <-timer.C:
		s.forget(id)
		c.JSON(http.StatusGatewayTimeout, errorBody{ID: id.String(), Error: "result not ready"})
	case <-c.Request.Context().Done():
		s.forget(id)
	}
}

func (s *Server) invalidateHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"epoch": s.invalidate()})
}
