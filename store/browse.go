package store

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/syedmojiz72-lab/agentexchanger/model"
)

// BrowseFilter selects and orders the agent listing.
// Category and Search are independently optional and combine with AND.
type BrowseFilter struct {
	// Category filters by exact category; "" or "all" means no filter
	Category string

	// Search matches a substring of name or description
	Search string

	// Sort selects the ordering (recent when unset)
	Sort model.SortMode
}

// listingColumns is the aggregating SELECT shared by ListAgents and
// GetListing. Tag rows multiply the joined rating rows uniformly per agent,
// so AVG stays correct while counts must be DISTINCT.
const listingColumns = `
	SELECT a.id, a.name, a.description, a.category, a.link, a.content_hash,
		a.creator_wallet, a.original_agent_id, a.fork_count, a.is_premium, a.created_at,
		COALESCE(AVG(r.stars), 0) AS avg_rating,
		COUNT(DISTINCT r.id) AS rating_count,
		GROUP_CONCAT(DISTINCT t.name) AS tag_names
	FROM agents a
	LEFT JOIN ratings r ON r.agent_id = a.id
	LEFT JOIN agent_tags at ON at.agent_id = a.id
	LEFT JOIN tags t ON t.id = at.tag_id`

// ListAgents runs the browse query and returns one aggregated row per
// matching agent. An empty result is an empty slice, not an error.
func (s *SQLiteStore) ListAgents(f BrowseFilter) ([]*model.AgentListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where []string
		args  []any
	)

	if f.Category != "" && f.Category != "all" {
		where = append(where, "a.category = ?")
		args = append(args, f.Category)
	}
	if f.Search != "" {
		where = append(where, "(a.name LIKE ? OR a.description LIKE ?)")
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern)
	}

	query := listingColumns
	if len(where) > 0 {
		query += "\n\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\tGROUP BY a.id"
	query += "\n\tORDER BY " + orderClause(f.Sort)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	listings := []*model.AgentListing{}
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}

	return listings, nil
}

// GetListing returns the aggregated browse row for a single agent
func (s *SQLiteStore) GetListing(id int64) (*model.AgentListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(listingColumns+"\n\tWHERE a.id = ?\n\tGROUP BY a.id", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query listing: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to query listing: %w", err)
		}
		return nil, fmt.Errorf("%w: agent %d", model.ErrNotFound, id)
	}

	return scanListing(rows)
}

// orderClause maps a sort mode to its ORDER BY expression.
// The trending score mixes fork and rating signal at fixed 0.7/0.3 weights,
// kept as-is from the source system.
func orderClause(mode model.SortMode) string {
	switch mode {
	case model.SortRating:
		return "avg_rating DESC, rating_count DESC"
	case model.SortForks:
		return "a.fork_count DESC"
	case model.SortTrending:
		return "(a.fork_count * 0.7 + avg_rating * rating_count * 0.3) DESC"
	default:
		return "a.created_at DESC, a.id DESC"
	}
}

// scanListing reads one aggregated row
func scanListing(rows *sql.Rows) (*model.AgentListing, error) {
	var (
		l           model.AgentListing
		contentHash sql.NullString
		creator     sql.NullString
		originalID  sql.NullInt64
		isPremium   int
		createdAt   int64
		tagNames    sql.NullString
	)

	err := rows.Scan(
		&l.ID,
		&l.Name,
		&l.Description,
		&l.Category,
		&l.Link,
		&contentHash,
		&creator,
		&originalID,
		&l.ForkCount,
		&isPremium,
		&createdAt,
		&l.AvgRating,
		&l.RatingCount,
		&tagNames,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan listing: %w", err)
	}

	l.ContentHash = contentHash.String
	l.CreatorWallet = creator.String
	if originalID.Valid {
		v := originalID.Int64
		l.OriginalAgentID = &v
	}
	l.IsPremium = isPremium != 0
	l.CreatedAt = time.Unix(createdAt, 0)
	l.Tags = splitTags(tagNames)
	return &l, nil
}

// splitTags converts the concatenated tag aggregate into a sorted slice.
// The comma-joined form never leaves the store layer.
func splitTags(tagNames sql.NullString) []string {
	if !tagNames.Valid || tagNames.String == "" {
		return []string{}
	}
	tags := strings.Split(tagNames.String, ",")
	sort.Strings(tags)
	return tags
}

// CategoryStat aggregates the marketplace per category for the stats chart
type CategoryStat struct {
	Category   string
	AgentCount int
	ForkTotal  int
	AvgRating  float64
}

// CategoryStats returns per-category agent counts, fork totals and average
// rating, ordered by agent count descending
func (s *SQLiteStore) CategoryStats() ([]CategoryStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT a.category,
			COUNT(*) AS agent_count,
			COALESCE(SUM(a.fork_count), 0) AS fork_total,
			COALESCE(AVG(rs.avg_stars), 0) AS avg_rating
		 FROM agents a
		 LEFT JOIN (SELECT agent_id, AVG(stars) AS avg_stars FROM ratings GROUP BY agent_id) rs
			ON rs.agent_id = a.id
		 GROUP BY a.category
		 ORDER BY agent_count DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query category stats: %w", err)
	}
	defer rows.Close()

	var stats []CategoryStat
	for rows.Next() {
		var st CategoryStat
		if err := rows.Scan(&st.Category, &st.AgentCount, &st.ForkTotal, &st.AvgRating); err != nil {
			return nil, fmt.Errorf("failed to scan category stat: %w", err)
		}
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category stats: %w", err)
	}

	return stats, nil
}
