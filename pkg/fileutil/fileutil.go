package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rohmanhakim/content-gate/pkg/failure"
)

// GetFileExtension extracts the lowercased file extension from a path,
// or empty string if none
func GetFileExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// EnsureDir joins dir with the optional path elements, creates the result
// if it does not exist yet and returns it.
func EnsureDir(dir string, path ...string) (string, failure.ClassifiedError) {
	targetPath := append([]string{dir}, path...)

	joined := filepath.Join(targetPath...)
	if err := os.MkdirAll(joined, 0o755); err != nil {
		return "", &FileError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: false,
			Cause:     ErrCausePathError,
			Path:      joined,
		}
	}
	return joined, nil
}
