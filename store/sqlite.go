package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/syedmojiz72-lab/agentexchanger/model"
	_ "modernc.org/sqlite"
)

// SQLiteStore is the SQLite-backed marketplace store.
// It owns the users, agents, tags, agent_tags and ratings tables.
type SQLiteStore struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

// NewSQLiteStore creates a new SQLite marketplace store
// If dbPath is empty, it uses ":memory:" for in-memory database
// For file-based storage, use a path like "./data/marketplace.db"
// The function automatically creates the directory if it doesn't exist
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = ":memory:"
	}

	// For file-based storage (not in-memory), ensure directory exists
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create directory for database: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{
		db:   db,
		path: dbPath,
	}

	// Create tables
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		wallet_address TEXT PRIMARY KEY,
		subscription_tier TEXT NOT NULL DEFAULT 'creator',
		social_handles TEXT DEFAULT '',
		created_at INTEGER NOT NULL,
		last_login INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS agents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		link TEXT NOT NULL,
		content_hash TEXT,
		creator_wallet TEXT REFERENCES users(wallet_address),
		original_agent_id INTEGER REFERENCES agents(id),
		fork_count INTEGER NOT NULL DEFAULT 0,
		is_premium INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_agents_category ON agents(category);
	CREATE INDEX IF NOT EXISTS idx_agents_created_at ON agents(created_at);
	CREATE INDEX IF NOT EXISTS idx_agents_original ON agents(original_agent_id);

	CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS agent_tags (
		agent_id INTEGER NOT NULL REFERENCES agents(id) ON DELETE CASCADE,
		tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (agent_id, tag_id)
	);

	CREATE TABLE IF NOT EXISTS ratings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		agent_id INTEGER NOT NULL REFERENCES agents(id),
		wallet_address TEXT,
		stars INTEGER NOT NULL,
		comment TEXT DEFAULT '',
		created_at INTEGER NOT NULL,
		UNIQUE(agent_id, wallet_address)
	);

	CREATE INDEX IF NOT EXISTS idx_ratings_agent_id ON ratings(agent_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertUser inserts a user on first login or refreshes last_login on
// subsequent logins. It returns the stored user.
func (s *SQLiteStore) UpsertUser(walletAddress string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().Unix()
	_, err := s.db.Exec(
		`INSERT INTO users (wallet_address, subscription_tier, created_at, last_login)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(wallet_address) DO UPDATE SET last_login = excluded.last_login`,
		walletAddress,
		string(model.TierCreator),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return s.getUserLocked(walletAddress)
}

// GetUser retrieves a user by wallet address
func (s *SQLiteStore) GetUser(walletAddress string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getUserLocked(walletAddress)
}

// getUserLocked reads a user row; the caller must hold a lock
func (s *SQLiteStore) getUserLocked(walletAddress string) (*model.User, error) {
	var (
		user               model.User
		tier               string
		social             sql.NullString
		createdAt, lastLog int64
	)

	err := s.db.QueryRow(
		`SELECT wallet_address, subscription_tier, social_handles, created_at, last_login
		 FROM users WHERE wallet_address = ?`,
		walletAddress,
	).Scan(&user.WalletAddress, &tier, &social, &createdAt, &lastLog)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user %s", model.ErrNotFound, walletAddress)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user.SubscriptionTier = model.SubscriptionTier(tier)
	user.SocialHandles = social.String
	user.CreatedAt = time.Unix(createdAt, 0)
	user.LastLogin = time.Unix(lastLog, 0)
	return &user, nil
}

// CreateAgent inserts a new agent with its tags. When the submission is a
// fork of an existing agent, the parent's fork_count is incremented in the
// same transaction, so a crash can never leave an undercounted parent.
// Returns the new agent id.
func (s *SQLiteStore) CreateAgent(p model.SubmitParams) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO agents (name, description, category, link, content_hash,
			creator_wallet, original_agent_id, fork_count, is_premium, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		p.Name,
		p.Description,
		p.Category,
		p.Link,
		nullString(p.ContentHash),
		nullString(p.CreatorWallet),
		nullInt64(p.OriginalAgentID),
		boolToInt(p.IsPremium),
		time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert agent: %w", err)
	}

	agentID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read agent id: %w", err)
	}

	for _, name := range p.Tags {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if err := attachTag(tx, agentID, name); err != nil {
			return 0, err
		}
	}

	// Lineage pointers to unknown agents are tolerated: the child keeps the
	// pointer and no counter moves, matching submission being lineage-agnostic
	if p.OriginalAgentID != nil {
		_, err := tx.Exec(
			"UPDATE agents SET fork_count = fork_count + 1 WHERE id = ?",
			*p.OriginalAgentID,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to increment fork count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit agent: %w", err)
	}

	return agentID, nil
}

// attachTag resolves or creates a tag by name and links it to the agent
func attachTag(tx *sql.Tx, agentID int64, name string) error {
	if _, err := tx.Exec("INSERT OR IGNORE INTO tags (name) VALUES (?)", name); err != nil {
		return fmt.Errorf("failed to insert tag: %w", err)
	}

	var tagID int64
	if err := tx.QueryRow("SELECT id FROM tags WHERE name = ?", name).Scan(&tagID); err != nil {
		return fmt.Errorf("failed to resolve tag: %w", err)
	}

	_, err := tx.Exec(
		"INSERT OR IGNORE INTO agent_tags (agent_id, tag_id) VALUES (?, ?)",
		agentID, tagID,
	)
	if err != nil {
		return fmt.Errorf("failed to link tag: %w", err)
	}
	return nil
}

// GetAgent retrieves an agent row by id
func (s *SQLiteStore) GetAgent(id int64) (*model.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		agent       model.Agent
		contentHash sql.NullString
		creator     sql.NullString
		originalID  sql.NullInt64
		isPremium   int
		createdAt   int64
	)

	err := s.db.QueryRow(
		`SELECT id, name, description, category, link, content_hash,
			creator_wallet, original_agent_id, fork_count, is_premium, created_at
		 FROM agents WHERE id = ?`,
		id,
	).Scan(
		&agent.ID,
		&agent.Name,
		&agent.Description,
		&agent.Category,
		&agent.Link,
		&contentHash,
		&creator,
		&originalID,
		&agent.ForkCount,
		&isPremium,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: agent %d", model.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query agent: %w", err)
	}

	agent.ContentHash = contentHash.String
	agent.CreatorWallet = creator.String
	if originalID.Valid {
		v := originalID.Int64
		agent.OriginalAgentID = &v
	}
	agent.IsPremium = isPremium != 0
	agent.CreatedAt = time.Unix(createdAt, 0)
	return &agent, nil
}

// CreateRating records a rating for an agent. Empty walletAddress marks an
// anonymous rating, which is stored as NULL and exempt from the one-rating-
// per-wallet constraint. A second rating from the same wallet for the same
// agent fails with model.ErrConflict.
func (s *SQLiteStore) CreateRating(agentID int64, walletAddress string, stars int, comment string) (int64, error) {
	if err := model.ValidateStars(stars); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM agents WHERE id = ?", agentID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("failed to check agent: %w", err)
	}
	if exists == 0 {
		return 0, fmt.Errorf("%w: agent %d", model.ErrNotFound, agentID)
	}

	res, err := s.db.Exec(
		`INSERT INTO ratings (agent_id, wallet_address, stars, comment, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		agentID,
		nullString(walletAddress),
		stars,
		comment,
		time.Now().Unix(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, fmt.Errorf("%w: wallet %s already rated agent %d", model.ErrConflict, walletAddress, agentID)
		}
		return 0, fmt.Errorf("failed to insert rating: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read rating id: %w", err)
	}
	return id, nil
}

// RatingsForAgent returns all ratings for an agent, newest first
func (s *SQLiteStore) RatingsForAgent(agentID int64) ([]*model.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, agent_id, wallet_address, stars, comment, created_at
		 FROM ratings WHERE agent_id = ? ORDER BY created_at DESC, id DESC`,
		agentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []*model.Rating
	for rows.Next() {
		r := &model.Rating{}
		var (
			wallet    sql.NullString
			comment   sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&r.ID, &r.AgentID, &wallet, &r.Stars, &comment, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		r.WalletAddress = wallet.String
		r.Comment = comment.String
		r.CreatedAt = time.Unix(createdAt, 0)
		ratings = append(ratings, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}

	return ratings, nil
}

// nullString maps "" to NULL for nullable text columns
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullInt64 maps a nil pointer to NULL
func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
