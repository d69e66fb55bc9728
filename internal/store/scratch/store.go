// Package scratch implements the terminal-scoped session store.
//
// It is the sessionStorage of the portal client: the chat session id lives
// in a scratch file keyed by the invoking terminal (parent process id), so
// re-running the client in the same terminal reuses the id — the browser's
// "reload the tab" case — while a different terminal gets its own scope.
package scratch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	dirMode  = 0o700
	fileMode = 0o600
)

// Store is the file-backed, terminal-scoped session id store.
type Store struct {
	path string
}

// New creates a store scoped to the current terminal. The TUB_SCOPE
// environment variable overrides the scope key, which tests and scripted
// runs use to pin or isolate a scope.
func New() *Store {
	scope := os.Getenv("TUB_SCOPE")
	if scope == "" {
		scope = strconv.Itoa(os.Getppid())
	}
	return NewWithScope(os.TempDir(), scope)
}

// NewWithScope creates a store under root for an explicit scope key.
func NewWithScope(root, scope string) *Store {
	return &Store{path: filepath.Join(root, "tub-portal", "session-"+scope)}
}

// Get returns the current scope's session id, or "" if never set.
func (s *Store) Get() string {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// Set overwrites the session id for this scope.
func (s *Store) Set(id string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(id), fileMode); err != nil {
		return fmt.Errorf("write session id: %w", err)
	}
	return nil
}

// Clear removes the stored session id. Missing is fine: the store may
// never have been written in this scope.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear session id: %w", err)
	}
	return nil
}
