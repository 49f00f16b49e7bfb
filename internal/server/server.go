// Package server exposes the archiving pipeline over HTTP. Requests
// are accepted immediately and processed in background jobs tracked by
// the job manager.
package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jrossi/playlist-archiver/config"
	"github.com/jrossi/playlist-archiver/internal/job"
	"github.com/jrossi/playlist-archiver/internal/pipeline"
)

// Runner executes one archiving run. Satisfied by *pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, reference string, opts pipeline.Options) (*pipeline.Result, error)
}

// Server handles HTTP requests for the playlist archiver
type Server struct {
	cfg        *config.Config
	router     *gin.Engine
	jobManager *job.Manager
	runner     Runner
}

// New creates a new HTTP server instance
func New(cfg *config.Config, runner Runner) *Server {
	router := gin.Default()

	server := &Server{
		cfg:        cfg,
		router:     router,
		jobManager: job.NewManager(),
		runner:     runner,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	// Add CORS middleware
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	s.router.GET("/health", s.healthCheck)

	// API endpoints
	api := s.router.Group("/api/v1")
	{
		api.POST("/archive", s.archivePlaylist)
		api.GET("/jobs/:id", s.getJobStatus)
		api.DELETE("/jobs/:id", s.cancelJob)
		api.GET("/jobs", s.listJobs)
	}
}

// Start starts the HTTP server
func (s *Server) Start(port string) error {
	return s.router.Run(":" + port)
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":    "ok",
		"timestamp": time.Now(),
		"service":   "playlist-archiver",
	})
}
