package utils

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// FindProjectRoot walks up from dir until it finds a directory containing
// one of the markers.
func FindProjectRoot(dir string, markers ...string) (string, error) {
	if len(markers) == 0 {
		markers = []string{".git", "go.mod", "package.json"}
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, m := range markers {
			if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// LoadEnv loads the .env file of each directory if present. Values already
// set in the environment win.
func LoadEnv(dirs ...string) error {
	for _, dir := range dirs {
		envPath := filepath.Join(dir, ".env")
		if err := godotenv.Load(envPath); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}
