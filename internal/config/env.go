package config

import (
	"os"
	"strings"
)

// The environment override layer. Each variable maps onto one document path
// and is merged into the raw document before defaulting, giving it the same
// precedence as a file value that was written last. Boolean settings are not
// overridable from the environment; only the scalar connection and logging
// parameters are.
var envOverrides = []struct {
	name    string
	section string
	key     string
}{
	{"MATRIX_BOT_COMMAND_PREFIX", "", "command_prefix"},
	{"MATRIX_BOT_USER_ID", "matrix", "user_id"},
	{"MATRIX_BOT_USER_PASSWORD", "matrix", "user_password"},
	{"MATRIX_BOT_HOMESERVER_URL", "matrix", "homeserver_url"},
	{"MATRIX_BOT_DEVICE_ID", "matrix", "device_id"},
	{"MATRIX_BOT_DEVICE_NAME", "matrix", "device_name"},
	{"MATRIX_BOT_DATABASE", "storage", "database"},
	{"MATRIX_BOT_STORE_PATH", "storage", "store_path"},
	{"MATRIX_BOT_LOG_LEVEL", "logging", "level"},
}

func applyEnvOverrides(doc map[string]any) {
	for _, override := range envOverrides {
		value := strings.TrimSpace(os.Getenv(override.name))
		if value == "" {
			continue
		}
		target := doc
		if override.section != "" {
			existing, ok := doc[override.section]
			if ok && existing != nil {
				sec, isMap := existing.(map[string]any)
				if !isMap {
					// Leave the structural violation for the resolver to report.
					continue
				}
				target = sec
			} else {
				sec := map[string]any{}
				doc[override.section] = sec
				target = sec
			}
		}
		target[override.key] = value
	}
}
