package util

import (
	"io/fs"
	"os"
	"path/filepath"
)

// InitDir creates the parent directory of path, expanding environment
// variables first.
func InitDir(path string, mode fs.FileMode) error {
	return os.MkdirAll(filepath.Dir(os.ExpandEnv(path)), mode)
}

// ExpandPath expands environment variables and a leading "~/" in path.
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)
	if len(path) > 1 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
