// Package admin exposes the read-only operator surface over HTTP: match
// state snapshots, the freshest ball position for pre-filling placement
// commands, and Prometheus metrics.
package admin

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/kressly/refereectl/internal/broadcast"
	"github.com/kressly/refereectl/internal/match"
	"github.com/kressly/refereectl/internal/observability"
	"github.com/kressly/refereectl/internal/vision"
)

type Server struct {
	store      *match.Store
	publisher  *broadcast.Publisher
	tracker    *vision.Tracker
	staleAfter time.Duration
	started    time.Time

	router *gin.Engine
}

func NewServer(store *match.Store, publisher *broadcast.Publisher, tracker *vision.Tracker, staleAfter time.Duration, corsOrigins []string) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(corsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		store:      store,
		publisher:  publisher,
		tracker:    tracker,
		staleAfter: staleAfter,
		started:    time.Now(),
		router:     r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.started).String(),
			"service": "refereectl",
		})
	})

	s.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":       true,
			"subscribers": s.publisher.Len(),
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/state", func(c *gin.Context) {
		snap := s.store.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"generation":      snap.Generation,
			"stage":           snap.State.Stage.String(),
			"command":         snap.State.Command.String(),
			"command_counter": snap.State.CommandCounter,
			"state":           snap.State,
		})
	})

	s.router.GET("/vision/ball", func(c *gin.Context) {
		if s.tracker == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no vision feed configured"})
			return
		}
		ball, ok := s.tracker.LatestBall(s.staleAfter)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no fresh ball observation"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"x": ball.X, "y": ball.Y})
	})
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
