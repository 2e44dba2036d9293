package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvConfig names the variable that points at a config file.
const EnvConfig = "IMVIEW_CONFIG"

var extensions = []string{".toml", ".yaml", ".yml"}

// SearchPaths returns the candidate config files in priority order, not
// including an explicit path.
func SearchPaths() []string {
	var paths []string
	if p := os.Getenv(EnvConfig); p != "" {
		paths = append(paths, p)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(xdg, "imview", "config"+ext))
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(home, ".config", "imview", "config"+ext))
		}
		paths = append(paths, filepath.Join(home, ".imview.toml"))
	}
	return append(paths, "/etc/imview/config.toml")
}

// Find returns the config file to load. An explicit path must exist; an
// empty explicit path searches SearchPaths and returns "" when none exist.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, explicit)
		}
		return explicit, nil
	}
	for _, p := range SearchPaths() {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", nil
}
