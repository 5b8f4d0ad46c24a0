// Package session maps opaque tokens to wallet addresses for the lifetime
// of the process. There is no persistence and no expiry: a restart clears
// every session and forces re-login, which is an accepted limitation of the
// mock wallet login.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Directory issues, resolves and revokes session tokens.
// It is injected into request handlers rather than captured as a global,
// so a persistent implementation can be swapped in later.
type Directory interface {
	// Issue generates a token for the wallet and stores the mapping
	Issue(walletAddress string) string

	// Resolve returns the wallet for a token, false if the token is unknown
	Resolve(token string) (string, bool)

	// Revoke removes the mapping; revoking an unknown token is a no-op
	Revoke(token string)
}

// MemoryDirectory is an in-memory Directory backed by a mutex-guarded map
type MemoryDirectory struct {
	mu      sync.RWMutex
	wallets map[string]string
}

// NewMemoryDirectory creates an empty in-memory session directory
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		wallets: make(map[string]string),
	}
}

// Issue generates a token for the wallet and stores the mapping.
// Tokens combine a random UUID with a nanosecond timestamp.
func (d *MemoryDirectory) Issue(walletAddress string) string {
	token := fmt.Sprintf("%s-%d", uuid.NewString(), time.Now().UnixNano())

	d.mu.Lock()
	defer d.mu.Unlock()

	d.wallets[token] = walletAddress
	return token
}

// Resolve returns the wallet for a token, false if the token is unknown
func (d *MemoryDirectory) Resolve(token string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	wallet, ok := d.wallets[token]
	return wallet, ok
}

// Revoke removes the mapping; revoking an unknown token is a no-op
func (d *MemoryDirectory) Revoke(token string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.wallets, token)
}
