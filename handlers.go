package main

import (
	"errors"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Server wires the media service into the HTTP surface.
type Server struct {
	cfg     *Config
	service *MediaService
}

func NewServer(cfg *Config, service *MediaService) *Server {
	return &Server{cfg: cfg, service: service}
}

func (s *Server) Router() *gin.Engine {
	if s.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestIDMiddleware())
	engine.Use(corsMiddleware(s.cfg.CORSOrigin))
	engine.Use(rateLimitMiddleware(rate.NewLimiter(rate.Limit(s.cfg.RequestsPerSecond), s.cfg.BurstSize)))

	// Behind a reverse proxy in deployment; only trust loopback.
	_ = engine.SetTrustedProxies([]string{"127.0.0.1"})

	api := engine.Group("/api")
	api.POST("/download", s.handleDownload)
	api.POST("/download/info", s.handleInfo)

	engine.StaticFS("/files", http.Dir(s.cfg.DownloadsDir))
	engine.GET("/health", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/", s.handleIndex)

	return engine
}

func (s *Server) handleDownload(c *gin.Context) {
	var req DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestsTotal.WithLabelValues("download", "invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid JSON body"})
		return
	}

	if verr := req.Validate(); verr != nil {
		requestsTotal.WithLabelValues("download", "invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request",
			"errors":  verr.Fields,
		})
		return
	}

	done := trackActive()
	defer done()

	log.Printf("Processing download request for: %s", req.URL)

	result, err := s.service.Download(c.Request.Context(), &req)
	if err != nil {
		atomic.AddInt64(&failedDownloads, 1)
		requestsTotal.WithLabelValues("download", "error").Inc()
		log.Printf("Download error: %v", err)
		c.JSON(statusForError(err), gin.H{"success": false, "message": err.Error()})
		return
	}

	atomic.AddInt64(&completedDownloads, 1)
	requestsTotal.WithLabelValues("download", "ok").Inc()
	c.FileAttachment(result.Filepath, result.Filename)
}

func (s *Server) handleInfo(c *gin.Context) {
	var req InfoRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		requestsTotal.WithLabelValues("info", "invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "URL is required"})
		return
	}

	info, err := s.service.GetInfo(c.Request.Context(), req.URL)
	if err != nil {
		requestsTotal.WithLabelValues("info", "error").Inc()
		log.Printf("Info error: %v", err)
		c.JSON(statusForError(err), gin.H{"success": false, "message": err.Error()})
		return
	}

	requestsTotal.WithLabelValues("info", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "data": info})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthStatus{
		Status:             "ok",
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
		Uptime:             time.Since(serverStartTime).String(),
		Environment:        s.cfg.Environment,
		ActiveDownloads:    atomic.LoadInt64(&activeDownloads),
		CompletedDownloads: atomic.LoadInt64(&completedDownloads),
		FailedDownloads:    atomic.LoadInt64(&failedDownloads),
	})
}

func (s *Server) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "YouTube Downloader API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"POST /api/download": gin.H{
				"description": "Download a YouTube video or audio",
				"body": gin.H{
					"url":       "YouTube URL (required)",
					"quality":   "Video quality: best, 1080, 720, 480, 360 (default: best)",
					"format":    "Output format: mp4, mp3 (default: mp4)",
					"startTime": "Start time in seconds or HH:MM:SS format (optional)",
					"endTime":   "End time in seconds or HH:MM:SS format (optional)",
				},
			},
			"POST /api/download/info": gin.H{
				"description": "Get video information",
				"body":        gin.H{"url": "YouTube URL (required)"},
			},
			"GET /files/:name": gin.H{"description": "Direct access to downloaded files"},
			"GET /health":      gin.H{"description": "Health check endpoint"},
		},
	})
}

// statusForError maps the error taxonomy onto HTTP status codes. Everything
// from the tool side is a server error except bot detection, which carries
// caller-actionable guidance.
func statusForError(err error) int {
	var verr *ValidationError
	var berr *BlockedError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &berr):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
