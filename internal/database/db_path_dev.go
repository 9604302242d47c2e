//go:build !prod

package database

import (
	"os"
	"path/filepath"
)

// GetDefaultDBPath returns the database path for development mode.
// Dev builds keep history in the temp dir so analyzed workspaces stay clean.
func GetDefaultDBPath() string {
	return filepath.Join(os.TempDir(), "projectarchitect-dev.db")
}

func IsDevelopment() bool {
	return true
}
