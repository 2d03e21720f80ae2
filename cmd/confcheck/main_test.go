package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const secretPassword = "supersecretpw"

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func validConfig(t *testing.T) string {
	t.Helper()

	storePath := filepath.Join(t.TempDir(), "store")
	return writeConfig(t, `
command_prefix: "!c "
matrix:
  user_id: "@bot:example.com"
  user_password: "`+secretPassword+`"
  homeserver_url: "https://matrix.example.com"
  device_id: "ABCDEFGHIJ"
storage:
  database: "sqlite://bot.db"
  store_path: "`+storePath+`"
logging:
  console_logging:
    enabled: false
`)
}

func TestRunValidConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(&stdout, &stderr, options{configFile: validConfig(t)})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "configuration OK") {
		t.Fatalf("unexpected stdout: %s", stdout.String())
	}
}

func TestRunInvalidConfig(t *testing.T) {
	path := writeConfig(t, `
command_prefix: "!c "
matrix:
  user_id: "@bot:example.com"
  device_id: "ABCDEFGHIJ"
storage:
  database: "sqlite://bot.db"
  store_path: "./store"
`)

	var stdout, stderr bytes.Buffer
	code := run(&stdout, &stderr, options{configFile: path})
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "matrix.homeserver_url") {
		t.Fatalf("stderr does not name the missing field: %s", stderr.String())
	}
}

func TestRunMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(&stdout, &stderr, options{configFile: filepath.Join(t.TempDir(), "absent.yaml")})
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}

func TestRunStrictUnknownKeys(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "store")
	path := writeConfig(t, `
command_prefix: "!c "
matrix:
  user_id: "@bot:example.com"
  homeserver_url: "https://matrix.example.com"
  device_id: "ABCDEFGHIJ"
storage:
  database: "sqlite://bot.db"
  store_path: "`+storePath+`"
reminders:
  timezone: "UTC"
`)

	var stdout, stderr bytes.Buffer
	if code := run(&stdout, &stderr, options{configFile: path}); code != 0 {
		t.Fatalf("warnings alone must not fail: %d (stderr: %s)", code, stderr.String())
	}
	if !strings.Contains(stderr.String(), "reminders") {
		t.Fatalf("expected unknown-key warning on stderr: %s", stderr.String())
	}

	stdout.Reset()
	stderr.Reset()
	if code := run(&stdout, &stderr, options{configFile: path, strict: true}); code != 1 {
		t.Fatalf("expected strict mode to fail on unknown keys")
	}
}

func TestRunPrintRedactsSecrets(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(&stdout, &stderr, options{configFile: validConfig(t), printResolved: true})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}
	if strings.Contains(stdout.String(), secretPassword) {
		t.Fatalf("resolved output leaks the password: %s", stdout.String())
	}
	if !strings.Contains(stdout.String(), "<redacted>") {
		t.Fatalf("expected redaction placeholder in output: %s", stdout.String())
	}
	if !strings.Contains(stdout.String(), "matrix_user_id: '@bot:example.com'") {
		t.Fatalf("expected resolved user ID in output: %s", stdout.String())
	}
}

func TestRunPrepareCreatesStorePath(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "store")
	path := writeConfig(t, `
command_prefix: "!c "
matrix:
  user_id: "@bot:example.com"
  homeserver_url: "https://matrix.example.com"
  device_id: "ABCDEFGHIJ"
storage:
  database: "sqlite://bot.db"
  store_path: "`+storePath+`"
logging:
  console_logging:
    enabled: false
`)

	var stdout, stderr bytes.Buffer
	if code := run(&stdout, &stderr, options{configFile: path, prepare: true}); code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}

	info, err := os.Stat(storePath)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected store directory to be created: %v %v", info, err)
	}
}
