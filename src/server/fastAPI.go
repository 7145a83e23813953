package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"live-indices/src/interfaces"
	"live-indices/src/logger"
	"live-indices/src/models"
	"live-indices/src/observability"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// -----------------------------------------------------------------------------
// FastAPIServer
// -----------------------------------------------------------------------------

type FastAPIServer struct {
	Config    *models.MConfig
	Logger    *logger.Logger
	Dashboard interfaces.IDashboard
	Metrics   *observability.Metrics
	engine    *gin.Engine
	http      *http.Server

	// WebSocket clients, owned by the hub loop
	clients    map[*Client]bool // value: client page is visible
	broadcast  chan *models.MViewState
	register   chan *Client
	unregister chan *Client
	visibility chan visibilityChange
	replies    chan clientReply
	lifecycle  chan bool
	done       chan struct{}
	stopOnce   sync.Once
	hubOnce    sync.Once
	connCount  atomic.Int32

	// Last broadcast view
	latestState *models.MViewState
	stateMutex  sync.RWMutex
}

type visibilityChange struct {
	client  *Client
	visible bool
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

// NewFastAPIServer builds the HTTP surface. gatherer serves /metrics
// (prometheus.DefaultGatherer when nil).
func NewFastAPIServer(cfg *models.MConfig, dashboard interfaces.IDashboard, metrics *observability.Metrics, gatherer prometheus.Gatherer, logger *logger.Logger) *FastAPIServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &FastAPIServer{
		Config:    cfg,
		Logger:    logger,
		Dashboard: dashboard,
		Metrics:   metrics,
		engine:    gin.New(),
		clients:   make(map[*Client]bool),
		// Buffered channel to prevent lock/blocking
		broadcast:  make(chan *models.MViewState, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		visibility: make(chan visibilityChange, 64),
		replies:    make(chan clientReply, 64),
		lifecycle:  make(chan bool, 64),
		done:       make(chan struct{}),
	}
	s.engine.Use(gin.Recovery())

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// setup web routes
	s.setupRoutes(gatherer)
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *FastAPIServer) setupRoutes(gatherer prometheus.Gatherer) {
	// REST API endpoints
	api := s.engine.Group("/api")
	api.GET("/health", s.getHealth)
	api.GET("/state", s.getState)
	api.GET("/entities", s.getEntities)
	api.GET("/metrics", s.getMetrics)
	api.POST("/select/:key", s.postSelect)
	api.POST("/visibility", s.postVisibility)

	// Prometheus
	s.engine.GET("/metrics", gin.WrapH(observability.HandlerFor(gatherer)))

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// Handler exposes the router, for tests and embedding.
func (s *FastAPIServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

// RunHub starts the websocket hub loops without the HTTP listener.
func (s *FastAPIServer) RunHub() {
	s.hubOnce.Do(func() {
		go s.handleWebsockets()
		go s.applyLifecycle()
	})
}

// Start serves HTTP until Stop. It blocks like gin's Run.
func (s *FastAPIServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	s.RunHub()

	s.http = &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.done)
		if s.http != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err = s.http.Shutdown(ctx)
		}
	})
	return err
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *FastAPIServer) getHealth(c *gin.Context) {
	s.stateMutex.RLock()
	var timestamp int64
	if s.latestState != nil {
		timestamp = s.latestState.Timestamp
	}
	s.stateMutex.RUnlock()

	c.JSON(200, gin.H{
		"status":        "ok",
		"connections":   s.connCount.Load(),
		"running":       s.Dashboard.Running(),
		"selected":      s.Dashboard.Selected(),
		"latest_update": timestamp,
	})
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getState(c *gin.Context) {
	c.JSON(200, s.Dashboard.View())
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getEntities(c *gin.Context) {
	c.JSON(200, gin.H{
		"entities": s.Dashboard.Entities(),
		"selected": s.Dashboard.Selected(),
	})
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getMetrics(c *gin.Context) {
	c.JSON(200, s.Dashboard.PipelineMetrics())
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) postSelect(c *gin.Context) {
	if err := s.Dashboard.Select(c.Param("key")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, s.Dashboard.View())
}

// -----------------------------------------------------------------------------

type visibilityRequest struct {
	Visible *bool `json:"visible" binding:"required"`
}

func (s *FastAPIServer) postVisibility(c *gin.Context) {
	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "body must be {\"visible\": bool}"})
		return
	}

	s.Dashboard.SetVisible(*req.Visible)
	c.JSON(200, gin.H{"running": s.Dashboard.Running()})
}
