package server

import (
	"github.com/gin-gonic/gin"

	"github.com/syedmojiz72-lab/agentexchanger/config"
	"github.com/syedmojiz72-lab/agentexchanger/log"
	"github.com/syedmojiz72-lab/agentexchanger/session"
	"github.com/syedmojiz72-lab/agentexchanger/store"
)

// Server is the marketplace HTTP server
type Server struct {
	config   *config.Config
	store    *store.SQLiteStore
	sessions session.Directory
}

// NewServer creates a new HTTP server over the given store and session
// directory. The directory is injected so it can be swapped for a
// persistent implementation later.
func NewServer(cfg *config.Config, st *store.SQLiteStore, sessions session.Directory) *Server {
	return &Server{
		config:   cfg,
		store:    st,
		sessions: sessions,
	}
}

// Router builds the gin engine with all routes registered
func (s *Server) Router() *gin.Engine {
	if s.config.Features.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	s.RegisterRoutes(router)
	return router
}

// RegisterRoutes registers HTTP routes on the given gin.Engine
// Routes: /api/*, /browse, /agent/:id, /submit, /fork/:id, /rate, /stats, /health
func (s *Server) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/login", s.handleLogin)
	router.POST("/api/logout", s.handleLogout)
	router.GET("/api/profile", s.handleProfile)

	router.GET("/", s.handleIndex)
	router.GET("/browse", s.handleBrowse)
	router.GET("/agent/:id", s.handleAgentDetail)
	router.GET("/submit", s.handleSubmitForm)
	router.POST("/submit", s.handleSubmit)
	router.GET("/fork/:id", s.handleFork)
	router.POST("/rate", s.handleRate)
	router.GET("/health", s.handleHealth)

	if s.config.Features.StatsEnabled {
		router.GET("/stats", s.handleStats)
	}
}

// Start runs the HTTP server until it fails
func (s *Server) Start() error {
	router := s.Router()

	address := s.config.GetAddress()
	log.Log.Infof("Starting HTTP server on %s", address)

	return router.Run(address)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "ok",
	})
}

// handleIndex redirects the root to the browse listing
func (s *Server) handleIndex(c *gin.Context) {
	c.Redirect(302, "/browse")
}

// walletFromRequest resolves the caller identity from the X-Session-Id
// header. Empty means anonymous.
func (s *Server) walletFromRequest(c *gin.Context) string {
	token := c.GetHeader("X-Session-Id")
	if token == "" {
		// HTML form posts carry the token in a cookie set at login time
		if cookie, err := c.Cookie("session_id"); err == nil {
			token = cookie
		}
	}
	if token == "" {
		return ""
	}

	wallet, ok := s.sessions.Resolve(token)
	if !ok {
		return ""
	}
	return wallet
}
