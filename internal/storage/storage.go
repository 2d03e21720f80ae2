// Package storage interprets the bot's persistence settings: the database
// URI whose scheme selects a backend, and the store directory that holds
// encryption keys and sync state between restarts.
package storage

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Backend identifies the database engine selected by the URI scheme.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

var (
	// ErrMissingScheme is returned when the database URI carries no scheme prefix.
	ErrMissingScheme = errors.New("database URI has no scheme")
	// ErrMissingPath is returned for a sqlite URI with no file path after the scheme.
	ErrMissingPath = errors.New("sqlite URI has no file path")
)

// UnsupportedSchemeError is returned when the URI scheme selects no known backend.
type UnsupportedSchemeError struct {
	Scheme string
}

func (e *UnsupportedSchemeError) Error() string {
	return fmt.Sprintf("unsupported database scheme %q", e.Scheme)
}

// Schemes returns the URI schemes a database URI may use.
func Schemes() []string {
	return []string{string(BackendSQLite), string(BackendPostgres)}
}

// ParseDatabaseURI splits a database URI into its backend and the connection
// string that backend expects: sqlite gets the bare file path after the
// scheme, postgres keeps the full URI as its DSN.
func ParseDatabaseURI(uri string) (Backend, string, error) {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok || scheme == "" {
		return "", "", ErrMissingScheme
	}
	switch scheme {
	case string(BackendSQLite):
		if rest == "" {
			return "", "", ErrMissingPath
		}
		return BackendSQLite, rest, nil
	case string(BackendPostgres):
		return BackendPostgres, uri, nil
	default:
		return "", "", &UnsupportedSchemeError{Scheme: scheme}
	}
}

// EnsureStorePath creates the store directory if needed and verifies it is
// writable by creating and removing a probe file inside it.
func EnsureStorePath(path string) error {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return fmt.Errorf("create store path: %w", err)
	}
	probe, err := os.CreateTemp(path, ".write-probe-*")
	if err != nil {
		return fmt.Errorf("store path is not writable: %w", err)
	}
	name := probe.Name()
	if err := probe.Close(); err != nil {
		return fmt.Errorf("close write probe: %w", err)
	}
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("remove write probe: %w", err)
	}
	return nil
}
