package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseDatabaseURI(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		backend, conn, err := ParseDatabaseURI("sqlite:///data/bot.db")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if backend != BackendSQLite {
			t.Fatalf("expected sqlite backend, got %s", backend)
		}
		if conn != "/data/bot.db" {
			t.Fatalf("expected bare file path, got %q", conn)
		}
	})

	t.Run("postgres keeps full DSN", func(t *testing.T) {
		uri := "postgres://bot:pw@db.example.com/bot"
		backend, conn, err := ParseDatabaseURI(uri)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if backend != BackendPostgres {
			t.Fatalf("expected postgres backend, got %s", backend)
		}
		if conn != uri {
			t.Fatalf("expected full DSN, got %q", conn)
		}
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, _, err := ParseDatabaseURI("mysql://bot")
		var unsupported *UnsupportedSchemeError
		if !errors.As(err, &unsupported) {
			t.Fatalf("expected UnsupportedSchemeError, got %v", err)
		}
		if unsupported.Scheme != "mysql" {
			t.Fatalf("unexpected scheme: %q", unsupported.Scheme)
		}
	})

	t.Run("missing scheme", func(t *testing.T) {
		if _, _, err := ParseDatabaseURI("bot.db"); !errors.Is(err, ErrMissingScheme) {
			t.Fatalf("expected ErrMissingScheme, got %v", err)
		}
	})

	t.Run("sqlite without path", func(t *testing.T) {
		if _, _, err := ParseDatabaseURI("sqlite://"); !errors.Is(err, ErrMissingPath) {
			t.Fatalf("expected ErrMissingPath, got %v", err)
		}
	})
}

func TestEnsureStorePath(t *testing.T) {
	t.Run("creates nested directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store", "crypto")
		if err := EnsureStorePath(path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory at %s, got %v %v", path, info, err)
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 0 {
			t.Fatalf("expected probe file to be removed, found %v", entries)
		}
	})

	t.Run("rejects a file in the way", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store")
		if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		if err := EnsureStorePath(path); err == nil {
			t.Fatalf("expected error for path occupied by a file")
		}
	})
}
