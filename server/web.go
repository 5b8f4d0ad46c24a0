package server

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/syedmojiz72-lab/agentexchanger/log"
	"github.com/syedmojiz72-lab/agentexchanger/model"
	"github.com/syedmojiz72-lab/agentexchanger/store"
	"github.com/syedmojiz72-lab/agentexchanger/visualize"
)

// handleBrowse handles the agent listing page with optional category,
// search and sort query parameters
func (s *Server) handleBrowse(c *gin.Context) {
	filter := store.BrowseFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     model.ParseSortMode(c.Query("sort")),
	}

	listings, err := s.store.ListAgents(filter)
	if err != nil {
		log.Log.Errorf("browse: failed to list agents: %v", err)
		c.JSON(500, gin.H{"error": "internal error"})
		return
	}

	html := renderBrowsePage(listings, filter)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(200, html)
}

// handleAgentDetail handles the agent detail page with ratings
func (s *Server) handleAgentDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(302, "/browse")
		return
	}

	listing, err := s.store.GetListing(id)
	if errors.Is(err, model.ErrNotFound) {
		c.Redirect(302, "/browse")
		return
	}
	if err != nil {
		log.Log.Errorf("agent detail: failed to load agent %d: %v", id, err)
		c.JSON(500, gin.H{"error": "internal error"})
		return
	}

	ratings, err := s.store.RatingsForAgent(id)
	if err != nil {
		log.Log.Errorf("agent detail: failed to load ratings for %d: %v", id, err)
		c.JSON(500, gin.H{"error": "internal error"})
		return
	}

	html := renderAgentPage(listing, ratings, c.Query("error"))
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(200, html)
}

// handleSubmitForm renders the submission form, prefilled from query
// parameters when arriving via a fork redirect
func (s *Server) handleSubmitForm(c *gin.Context) {
	draft := &model.AgentDraft{
		Name:        c.Query("name"),
		Description: c.Query("description"),
		Category:    c.Query("category"),
		Link:        c.Query("link"),
	}
	if v, err := strconv.ParseInt(c.Query("original_agent_id"), 10, 64); err == nil {
		draft.OriginalAgentID = &v
	}

	html := renderSubmitPage(draft)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(200, html)
}

// handleSubmit handles agent submission form posts
func (s *Server) handleSubmit(c *gin.Context) {
	params := model.SubmitParams{
		Name:          c.PostForm("name"),
		Description:   c.PostForm("description"),
		Category:      c.PostForm("category"),
		Link:          c.PostForm("link"),
		ContentHash:   c.PostForm("content_hash"),
		CreatorWallet: s.walletFromRequest(c),
		IsPremium:     c.PostForm("is_premium") != "",
	}
	if tags := c.PostForm("tags"); tags != "" {
		params.Tags = strings.Split(tags, ",")
	}
	if v, err := strconv.ParseInt(c.PostForm("original_agent_id"), 10, 64); err == nil {
		params.OriginalAgentID = &v
	}

	id, err := s.store.CreateAgent(params)
	if errors.Is(err, model.ErrValidation) {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Log.Errorf("submit: failed to create agent: %v", err)
		c.JSON(500, gin.H{"error": "internal error"})
		return
	}

	c.Redirect(303, fmt.Sprintf("/agent/%d", id))
}

// handleFork prepares a fork draft and redirects to the prefilled
// submission form. Unknown or malformed ids redirect to the listing.
func (s *Server) handleFork(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(302, "/browse")
		return
	}

	agent, err := s.store.GetAgent(id)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			log.Log.Errorf("fork: failed to load agent %d: %v", id, err)
		}
		c.Redirect(302, "/browse")
		return
	}

	draft := model.ForkDraft(agent)
	query := url.Values{}
	query.Set("name", draft.Name)
	query.Set("description", draft.Description)
	query.Set("category", draft.Category)
	query.Set("link", draft.Link)
	query.Set("original_agent_id", strconv.FormatInt(*draft.OriginalAgentID, 10))

	c.Redirect(302, "/submit?"+query.Encode())
}

// handleRate handles rating form posts. Invalid input is a silent no-op for
// the client (redirect back to the agent page) but is always logged; a
// duplicate rating redirects with an error flag.
func (s *Server) handleRate(c *gin.Context) {
	agentID, err := strconv.ParseInt(c.PostForm("agent_id"), 10, 64)
	if err != nil {
		log.Log.Warnf("rate: rejected non-integer agent_id %q", c.PostForm("agent_id"))
		c.Redirect(302, "/browse")
		return
	}

	stars, err := strconv.Atoi(c.PostForm("stars"))
	if err != nil {
		log.Log.Warnf("rate: rejected non-integer stars %q for agent %d", c.PostForm("stars"), agentID)
		c.Redirect(302, fmt.Sprintf("/agent/%d", agentID))
		return
	}

	wallet := s.walletFromRequest(c)
	_, err = s.store.CreateRating(agentID, wallet, stars, c.PostForm("comment"))
	switch {
	case errors.Is(err, model.ErrValidation):
		log.Log.Warnf("rate: rejected stars=%d for agent %d: %v", stars, agentID, err)
		c.Redirect(302, fmt.Sprintf("/agent/%d", agentID))
	case errors.Is(err, model.ErrConflict):
		log.Log.Warnf("rate: duplicate rating for agent %d by %s", agentID, wallet)
		c.Redirect(302, fmt.Sprintf("/agent/%d?error=already_rated", agentID))
	case errors.Is(err, model.ErrNotFound):
		log.Log.Warnf("rate: unknown agent %d", agentID)
		c.Redirect(302, "/browse")
	case err != nil:
		log.Log.Errorf("rate: failed to store rating for agent %d: %v", agentID, err)
		c.Redirect(302, fmt.Sprintf("/agent/%d", agentID))
	default:
		c.Redirect(302, fmt.Sprintf("/agent/%d", agentID))
	}
}

// handleStats renders the marketplace category statistics chart
func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.store.CategoryStats()
	if err != nil {
		log.Log.Errorf("stats: failed to load category stats: %v", err)
		c.JSON(500, gin.H{"error": "internal error"})
		return
	}

	chart := visualize.NewStatsChart(stats)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(200)
	if err := chart.Render(c.Writer, "Marketplace Statistics"); err != nil {
		log.Log.Errorf("stats: failed to render chart: %v", err)
	}
}
