package config

import "strings"

const (
	defaultDeviceName   = "Matrix Bot"
	redactedPlaceholder = "<redacted>"
)

// LogLevel is one of the fixed set of logging verbosity levels.
type LogLevel string

const (
	LevelInfo    LogLevel = "INFO"
	LevelWarning LogLevel = "WARNING"
	LevelError   LogLevel = "ERROR"
	LevelDebug   LogLevel = "DEBUG"
)

// LogLevels returns the allowed level names in their canonical spelling.
func LogLevels() []string {
	return []string{string(LevelInfo), string(LevelWarning), string(LevelError), string(LevelDebug)}
}

// ParseLogLevel matches raw against the allowed levels, case-insensitively.
func ParseLogLevel(raw string) (LogLevel, bool) {
	switch LogLevel(strings.ToUpper(strings.TrimSpace(raw))) {
	case LevelInfo:
		return LevelInfo, true
	case LevelWarning:
		return LevelWarning, true
	case LevelError:
		return LevelError, true
	case LevelDebug:
		return LevelDebug, true
	}
	return "", false
}

// ResolvedConfig is the fully validated configuration snapshot. It is built
// once at startup and treated as read-only by every consumer; pass it by
// value rather than sharing a pointer.
type ResolvedConfig struct {
	CommandPrefix      string `yaml:"command_prefix"`
	MatrixUserID       string `yaml:"matrix_user_id"`
	MatrixUserPassword string `yaml:"matrix_user_password"`
	HomeserverURL      string `yaml:"homeserver_url"`
	// DeviceID must not collide with a device already registered on the
	// account; a collision causes silent message loss in encrypted rooms and
	// cannot be detected at resolution time.
	DeviceID              string   `yaml:"device_id"`
	DeviceName            string   `yaml:"device_name"`
	DatabaseURI           string   `yaml:"database"`
	StorePath             string   `yaml:"store_path"`
	LogLevel              LogLevel `yaml:"log_level"`
	FileLoggingEnabled    bool     `yaml:"file_logging_enabled"`
	FileLoggingPath       string   `yaml:"file_logging_path"`
	ConsoleLoggingEnabled bool     `yaml:"console_logging_enabled"`
}

// Redacted returns a copy safe for printing and logging: sensitive fields are
// replaced with a placeholder.
func (c ResolvedConfig) Redacted() ResolvedConfig {
	if c.MatrixUserPassword != "" {
		c.MatrixUserPassword = redactedPlaceholder
	}
	return c
}
