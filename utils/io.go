package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// OutputPath creates (if needed) the run's output directory and
// returns the path of name inside it.
func OutputPath(outputDirectory string, runId string, name string) (string, error) {
	dir := filepath.Join(outputDirectory, runId)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return filepath.Join(dir, name), nil
}

func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
