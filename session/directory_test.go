package session

import (
	"sync"
	"testing"
)

func TestMemoryDirectory_IssueResolve(t *testing.T) {
	dir := NewMemoryDirectory()

	token := dir.Issue("0xabc")
	if token == "" {
		t.Fatal("Expected non-empty token")
	}

	wallet, ok := dir.Resolve(token)
	if !ok {
		t.Fatal("Expected token to resolve")
	}
	if wallet != "0xabc" {
		t.Errorf("Wallet mismatch: got %s, want 0xabc", wallet)
	}
}

func TestMemoryDirectory_TokensUnique(t *testing.T) {
	dir := NewMemoryDirectory()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := dir.Issue("0xabc")
		if seen[token] {
			t.Fatalf("Duplicate token issued: %s", token)
		}
		seen[token] = true
	}
}

func TestMemoryDirectory_Revoke(t *testing.T) {
	dir := NewMemoryDirectory()

	token := dir.Issue("0xabc")
	dir.Revoke(token)

	if _, ok := dir.Resolve(token); ok {
		t.Error("Expected revoked token to be absent")
	}

	// Revoking again is a no-op
	dir.Revoke(token)
	dir.Revoke("never-issued")
}

func TestMemoryDirectory_ResolveUnknown(t *testing.T) {
	dir := NewMemoryDirectory()

	if _, ok := dir.Resolve("unknown"); ok {
		t.Error("Expected unknown token to be absent")
	}
}

func TestMemoryDirectory_Concurrent(t *testing.T) {
	dir := NewMemoryDirectory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token := dir.Issue("0xabc")
			if _, ok := dir.Resolve(token); !ok {
				t.Error("Expected issued token to resolve")
			}
			dir.Revoke(token)
		}()
	}
	wg.Wait()
}
