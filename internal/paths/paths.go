// Package paths resolves the per-user directories wsgen reads from.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// Env is the interface for environment variable lookups.
// Implementations must return "" for unset variables.
type Env interface {
	Get(key string) string
}

// OSEnv reads the process environment.
type OSEnv struct{}

func (OSEnv) Get(key string) string { return os.Getenv(key) }

// ConfigDir returns the directory holding the user config.toml.
//
// Resolution order:
//  1. WSGEN_CONFIG_DIR
//  2. macOS: ~/Library/Preferences/wsgen
//  3. XDG_CONFIG_HOME/wsgen
//  4. ~/.config/wsgen
//
// ~ inside env vars is treated as literal. The filesystem is not touched.
func ConfigDir(env Env, homeDir string) string {
	return configDirWithOS(env, homeDir, runtime.GOOS == "darwin")
}

func configDirWithOS(env Env, homeDir string, isDarwin bool) string {
	if v := env.Get("WSGEN_CONFIG_DIR"); v != "" {
		return v
	}
	if isDarwin {
		return filepath.Join(homeDir, "Library", "Preferences", "wsgen")
	}
	if v := env.Get("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "wsgen")
	}
	return filepath.Join(homeDir, ".config", "wsgen")
}
