package server

import (
	"github.com/gin-gonic/gin"

	"github.com/syedmojiz72-lab/agentexchanger/log"
)

// LoginRequest is the mock wallet login payload.
// The signature is accepted but never cryptographically verified; the login
// is a mock and is kept clearly labeled as such.
type LoginRequest struct {
	WalletAddress string `json:"walletAddress"`
	Signature     string `json:"signature"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	Success       bool   `json:"success"`
	SessionID     string `json:"sessionId"`
	WalletAddress string `json:"walletAddress"`
}

// handleLogin handles POST /api/login
func (s *Server) handleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid request body"})
		return
	}

	if req.WalletAddress == "" {
		c.JSON(400, gin.H{"error": "walletAddress is required"})
		return
	}

	user, err := s.store.UpsertUser(req.WalletAddress)
	if err != nil {
		log.Log.Errorf("login: failed to upsert user: %v", err)
		c.JSON(500, gin.H{"error": "internal error"})
		return
	}

	token := s.sessions.Issue(user.WalletAddress)

	// Cookie lets the server-rendered forms reuse the session
	c.SetCookie("session_id", token, 0, "/", "", false, true)
	c.JSON(200, LoginResponse{
		Success:       true,
		SessionID:     token,
		WalletAddress: user.WalletAddress,
	})
}

// handleLogout handles POST /api/logout; always reports success
func (s *Server) handleLogout(c *gin.Context) {
	if token := c.GetHeader("X-Session-Id"); token != "" {
		s.sessions.Revoke(token)
	}
	c.SetCookie("session_id", "", -1, "/", "", false, true)
	c.JSON(200, gin.H{"success": true})
}

// handleProfile handles GET /api/profile
func (s *Server) handleProfile(c *gin.Context) {
	wallet := s.walletFromRequest(c)
	if wallet == "" {
		c.JSON(401, gin.H{"error": "session not found"})
		return
	}

	user, err := s.store.GetUser(wallet)
	if err != nil {
		log.Log.Errorf("profile: failed to load user %s: %v", wallet, err)
		c.JSON(500, gin.H{"error": "internal error"})
		return
	}

	c.JSON(200, user)
}
