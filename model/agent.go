package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Agent represents a marketplace listing for a third-party AI tool
// Agents are created via submission, mutated only to bump the fork count
// when a child is submitted, and never deleted or edited
type Agent struct {
	// ID is the auto-incrementing row id
	ID int64 `json:"id"`

	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`

	// Link is the external URL of the listed tool
	Link string `json:"link"`

	// ContentHash is an optional integrity hash supplied by the creator
	ContentHash string `json:"contentHash,omitempty"`

	// CreatorWallet is a weak reference to the submitting user
	// Empty means the agent was submitted anonymously
	CreatorWallet string `json:"creatorWallet,omitempty"`

	// OriginalAgentID points to the parent agent for forks, nil for originals
	OriginalAgentID *int64 `json:"originalAgentId,omitempty"`

	// ForkCount equals the number of agents whose OriginalAgentID points here
	ForkCount int `json:"forkCount"`

	IsPremium bool      `json:"isPremium"`
	CreatedAt time.Time `json:"createdAt"`
}

// AgentListing is a browse view row: an agent plus its rating and tag
// aggregates. Tags cross the store boundary as a slice, never as a
// delimited string.
type AgentListing struct {
	Agent

	// AvgRating is the average stars across all ratings, 0 when unrated
	AvgRating float64 `json:"avgRating"`

	// RatingCount is the number of ratings
	RatingCount int `json:"ratingCount"`

	// Tags are the agent's tag names, sorted
	Tags []string `json:"tags"`
}

// AgentDraft is a prepared submission, either blank or prefilled from an
// existing agent for forking. It carries no store state.
type AgentDraft struct {
	Name            string
	Description     string
	Category        string
	Link            string
	OriginalAgentID *int64
}

// SubmitParams are the inputs to an agent submission
type SubmitParams struct {
	Name            string
	Description     string
	Category        string
	Link            string
	ContentHash     string
	CreatorWallet   string
	OriginalAgentID *int64
	Tags            []string
	IsPremium       bool
}

// linkPattern accepts an optional scheme, a dotted host, and an optional path
var linkPattern = regexp.MustCompile(`^(https?://)?([a-zA-Z0-9-]+\.)+[a-zA-Z0-9-]+(/\S*)?$`)

// Validate checks the required submission fields.
// A missing field and a malformed link produce distinct validation errors.
func (p *SubmitParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" ||
		strings.TrimSpace(p.Description) == "" ||
		strings.TrimSpace(p.Category) == "" ||
		strings.TrimSpace(p.Link) == "" {
		return fmt.Errorf("%w: name, description, category and link are required", ErrValidation)
	}
	if !linkPattern.MatchString(p.Link) {
		return fmt.Errorf("%w: link must be a valid URL", ErrValidation)
	}
	return nil
}

// ForkDraft builds a submission draft from an existing agent.
// The draft keeps the original's description, category and link, prefixes
// the name and records the lineage pointer.
func ForkDraft(original *Agent) *AgentDraft {
	id := original.ID
	return &AgentDraft{
		Name:            "Fork of " + original.Name,
		Description:     original.Description,
		Category:        original.Category,
		Link:            original.Link,
		OriginalAgentID: &id,
	}
}

// SortMode selects the browse ordering
type SortMode string

const (
	SortRecent   SortMode = "recent"
	SortRating   SortMode = "rating"
	SortForks    SortMode = "forks"
	SortTrending SortMode = "trending"
)

// ParseSortMode maps a query value to a SortMode, defaulting to recent
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortRating, SortForks, SortTrending:
		return SortMode(s)
	default:
		return SortRecent
	}
}
