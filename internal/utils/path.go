// Package utils holds small helpers shared by the CLI and the config loader.
package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading ~ to the home directory and $VAR references.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}
