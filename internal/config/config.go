// Package config reads the handful of environment-backed settings the tool
// honors. Flags take precedence over the environment; the environment takes
// precedence over built-in defaults.
package config

import (
	"os"
	"strconv"
)

// DefaultFontPath is where the footer font is looked for when neither the
// -font flag nor CROPMARK_FONT is set.
const DefaultFontPath = "/usr/share/fonts/levien-inconsolata/Inconsolata-Regular.ttf"

const defaultWorkers = 4

// Settings holds the runtime configuration for one invocation.
type Settings struct {
	FontPath string
	Workers  int
}

// Load populates Settings from the environment, falling back to defaults.
func Load() Settings {
	s := Settings{
		FontPath: GetEnv("CROPMARK_FONT", DefaultFontPath),
		Workers:  defaultWorkers,
	}
	if v := GetEnv("CROPMARK_WORKERS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.Workers = n
		}
	}
	return s
}

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
