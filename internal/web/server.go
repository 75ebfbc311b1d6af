// Package web serves the projectflow views as a JSON API.
package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dori/projectflow/internal/assistant"
	"github.com/dori/projectflow/internal/logging"
	"github.com/dori/projectflow/internal/state"
)

const maxBodySize = 1 << 20 // 1MB

// Server is the projectflow web server
type Server struct {
	state     *state.Provider
	assistant *assistant.Service
	log       *logging.Logger
	now       func() time.Time
	router    *gin.Engine
}

// NewServer creates a new web server
func NewServer(provider *state.Provider, svc *assistant.Service, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}

	router := gin.New()
	s := &Server{
		state:     provider,
		assistant: svc,
		log:       log.With("component", "web"),
		now:       time.Now,
		router:    router,
	}

	router.Use(gin.Recovery(), s.requestLogger(), limitBody(maxBodySize))

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/login", s.handleLogin)
		auth.POST("/register", s.handleRegister)
		auth.GET("/me", s.handleMe)
		auth.POST("/logout", s.requireUser, s.handleLogout)
	}

	views := api.Group("", s.requireUser)
	{
		views.PUT("/profile", s.handleUpdateProfile)
		views.GET("/dashboard", s.handleDashboard)

		views.GET("/projects", s.handleListProjects)
		views.POST("/projects", s.handleCreateProject)
		views.GET("/projects/:id", s.handleGetProject)
		views.PUT("/projects/:id", s.handleUpdateProject)
		views.DELETE("/projects/:id", s.handleDeleteProject)

		views.GET("/projects/:id/board", s.handleBoard)
		views.POST("/projects/:id/board/drop", s.handleDrop)

		views.POST("/projects/:id/tasks", s.handleCreateTask)
		views.PUT("/projects/:id/tasks/:taskId", s.handleUpdateTask)
		views.DELETE("/projects/:id/tasks/:taskId", s.handleDeleteTask)

		views.GET("/projects/:id/summary", s.handleSummary)
		views.GET("/projects/:id/insights", s.handleInsights)

		views.POST("/assistant/generate", s.handleGenerate)
		views.GET("/assistant/suggestions", s.handleSuggestions)

		views.GET("/messages", s.handleMessagesIntro)
		views.POST("/messages", s.handleMessage)

		views.GET("/export", s.handleExport)
	}

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestLogger logs one line per request through the application logger
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

// requireUser rejects requests without a signed in user
func (s *Server) requireUser(c *gin.Context) {
	if s.state.User() == nil {
		fail(c, http.StatusUnauthorized, "not signed in")
		c.Abort()
		return
	}
	c.Next()
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   msg,
	})
}
