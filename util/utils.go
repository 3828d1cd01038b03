package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// AbsolutePath resolves a path against the current working directory.
func AbsolutePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	root, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(root, path), nil
}

func StringPtr(s string) *string {
	return &s
}
