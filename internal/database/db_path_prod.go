//go:build prod

package database

import (
	"log"
	"os"
	"path/filepath"
)

// GetDefaultDBPath returns the history database path for release builds,
// stored under the user's config directory.
func GetDefaultDBPath() string {
	fallback := filepath.Join(os.TempDir(), "projectarchitect.db")

	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Printf("Warning: user config dir unavailable: %v. Using %s.", err, fallback)
		return fallback
	}

	appDir := filepath.Join(configDir, "projectarchitect")
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		log.Printf("Warning: cannot create %s: %v. Using %s.", appDir, err, fallback)
		return fallback
	}
	return filepath.Join(appDir, "history.db")
}

func IsDevelopment() bool {
	return false
}
