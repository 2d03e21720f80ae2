package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/matrix-bot-config/internal/storage"
)

// knownKeys maps a section path to the keys the schema declares there.
// Anything else becomes an unknown-key warning.
var knownKeys = map[string]map[string]bool{
	"":                        {"command_prefix": true, "matrix": true, "storage": true, "logging": true},
	"matrix":                  {"user_id": true, "user_password": true, "homeserver_url": true, "device_id": true, "device_name": true},
	"storage":                 {"database": true, "store_path": true},
	"logging":                 {"level": true, "file_logging": true, "console_logging": true},
	"logging.file_logging":    {"enabled": true, "filepath": true},
	"logging.console_logging": {"enabled": true},
}

// Load reads, parses, and resolves the configuration file at path.
func Load(path string) (ResolvedConfig, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ResolvedConfig{}, nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse resolves a raw YAML document. The MATRIX_BOT_* environment override
// layer is merged into the document before defaulting, so overrides behave
// exactly like file values.
func Parse(data []byte) (ResolvedConfig, []Warning, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ResolvedConfig{}, nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	applyEnvOverrides(doc)
	return Resolve(doc)
}

// Resolve validates the document against the schema, applies defaults, and
// freezes the result. On failure the returned error aggregates every
// violation found, not just the first. Resolve reads nothing but the
// document; it performs no filesystem or network probing.
func Resolve(doc map[string]any) (ResolvedConfig, []Warning, error) {
	r := &resolver{}
	warnings := collectUnknownKeys(doc)

	cfg := ResolvedConfig{
		DeviceName:            defaultDeviceName,
		LogLevel:              LevelInfo,
		ConsoleLoggingEnabled: true,
	}

	cfg.CommandPrefix = r.requiredString(doc, "command_prefix", "command_prefix")

	matrix := r.section(doc, "matrix", "matrix")
	cfg.MatrixUserID = r.requiredString(matrix, "matrix.user_id", "user_id")
	cfg.MatrixUserPassword = r.optionalString(matrix, "matrix.user_password", "user_password", "")
	cfg.HomeserverURL = r.requiredString(matrix, "matrix.homeserver_url", "homeserver_url")
	cfg.DeviceID = r.requiredString(matrix, "matrix.device_id", "device_id")
	cfg.DeviceName = r.optionalString(matrix, "matrix.device_name", "device_name", defaultDeviceName)

	store := r.section(doc, "storage", "storage")
	cfg.DatabaseURI = r.requiredString(store, "storage.database", "database")
	cfg.StorePath = r.requiredString(store, "storage.store_path", "store_path")

	logging := r.section(doc, "logging", "logging")
	rawLevel := r.optionalString(logging, "logging.level", "level", string(LevelInfo))
	if level, ok := ParseLogLevel(rawLevel); ok {
		cfg.LogLevel = level
	} else {
		r.add(invalidEnum("logging.level", rawLevel, LogLevels()))
	}
	fileLogging := r.section(logging, "logging.file_logging", "file_logging")
	cfg.FileLoggingEnabled = r.optionalBool(fileLogging, "logging.file_logging.enabled", "enabled", false)
	cfg.FileLoggingPath = r.optionalString(fileLogging, "logging.file_logging.filepath", "filepath", "")
	consoleLogging := r.section(logging, "logging.console_logging", "console_logging")
	cfg.ConsoleLoggingEnabled = r.optionalBool(consoleLogging, "logging.console_logging.enabled", "enabled", true)

	r.crossValidate(&cfg)

	if r.errs != nil {
		return ResolvedConfig{}, warnings, &ValidationError{err: r.errs}
	}
	return cfg, warnings, nil
}

type resolver struct {
	errs error
}

func (r *resolver) add(fe *FieldError) {
	r.errs = multierr.Append(r.errs, fe)
}

// section fetches a nested mapping, recording a type violation when the key
// holds a scalar. A missing section comes back nil so that required fields
// inside it report their own paths.
func (r *resolver) section(parent map[string]any, path, key string) map[string]any {
	value, ok := parent[key]
	if !ok || value == nil {
		return nil
	}
	m, ok := value.(map[string]any)
	if !ok {
		r.add(invalidType(path, "mapping", typeName(value)))
		return nil
	}
	return m
}

func (r *resolver) requiredString(parent map[string]any, path, key string) string {
	value, ok := parent[key]
	if !ok || value == nil {
		r.add(missingField(path))
		return ""
	}
	s, ok := value.(string)
	if !ok {
		r.add(invalidType(path, "string", typeName(value)))
		return ""
	}
	if strings.TrimSpace(s) == "" {
		r.add(missingField(path))
		return ""
	}
	return s
}

func (r *resolver) optionalString(parent map[string]any, path, key, fallback string) string {
	value, ok := parent[key]
	if !ok || value == nil {
		return fallback
	}
	s, ok := value.(string)
	if !ok {
		r.add(invalidType(path, "string", typeName(value)))
		return fallback
	}
	return s
}

func (r *resolver) optionalBool(parent map[string]any, path, key string, fallback bool) bool {
	value, ok := parent[key]
	if !ok || value == nil {
		return fallback
	}
	b, ok := value.(bool)
	if !ok {
		r.add(invalidType(path, "bool", typeName(value)))
		return fallback
	}
	return b
}

// crossValidate checks the constraints that span fields or need syntax
// awareness. Fields already reported missing are skipped to avoid cascades.
func (r *resolver) crossValidate(cfg *ResolvedConfig) {
	if cfg.MatrixUserID != "" && !validUserID(cfg.MatrixUserID) {
		r.add(invalidValue("matrix.user_id", "must be a Matrix user ID of the form @localpart:domain"))
	}
	if cfg.HomeserverURL != "" {
		if reason := checkHomeserverURL(cfg.HomeserverURL); reason != "" {
			r.add(invalidURL("matrix.homeserver_url", reason))
		}
	}
	if cfg.DatabaseURI != "" {
		if _, _, err := storage.ParseDatabaseURI(cfg.DatabaseURI); err != nil {
			var unsupported *storage.UnsupportedSchemeError
			if errors.As(err, &unsupported) {
				r.add(invalidEnum("storage.database", unsupported.Scheme, storage.Schemes()))
			} else {
				r.add(invalidURL("storage.database", err.Error()))
			}
		}
	}
	if cfg.FileLoggingEnabled && strings.TrimSpace(cfg.FileLoggingPath) == "" {
		r.add(missingField("logging.file_logging.filepath"))
	}
}

func validUserID(id string) bool {
	if !strings.HasPrefix(id, "@") {
		return false
	}
	localpart, domain, ok := strings.Cut(id[1:], ":")
	return ok && localpart != "" && domain != ""
}

func checkHomeserverURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "not a parseable URL"
	}
	if !u.IsAbs() {
		return "must be an absolute URL"
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Sprintf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return "missing host"
	}
	return ""
}

func collectUnknownKeys(doc map[string]any) []Warning {
	var out []Warning
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		allowed := knownKeys[prefix]
		for key, value := range m {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			if !allowed[key] {
				out = append(out, Warning{Path: path})
				continue
			}
			if child, ok := value.(map[string]any); ok {
				if _, known := knownKeys[path]; known {
					walk(path, child)
				}
			}
		}
	}
	walk("", doc)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func typeName(value any) string {
	switch value.(type) {
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int64:
		return "integer"
	case float64:
		return "float"
	case map[string]any:
		return "mapping"
	case []any:
		return "sequence"
	default:
		return fmt.Sprintf("%T", value)
	}
}
