package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rohmanhakim/content-gate/pkg/failure"
	"github.com/rohmanhakim/content-gate/pkg/fileutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFileExtension(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "json config", path: "gate.json", expected: "json"},
		{name: "yaml config", path: "/etc/content-gate/gate.yaml", expected: "yaml"},
		{name: "uppercase extension", path: "GATE.YML", expected: "yml"},
		{name: "multiple dots", path: "gate.prod.json", expected: "json"},
		{name: "no extension", path: "gate", expected: ""},
		{name: "dot at end", path: "gate.", expected: ""},
		{name: "empty string", path: "", expected: ""},
		{name: "directory", path: "/some/directory/", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fileutil.GetFileExtension(tt.path))
		})
	}
}

func TestEnsureDir_CreatesNestedDirectory(t *testing.T) {
	base := t.TempDir()

	dir, err := fileutil.EnsureDir(base, "data", "leveldb")
	require.Nil(t, err)
	assert.Equal(t, filepath.Join(base, "data", "leveldb"), dir)

	info, statErr := os.Stat(dir)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestEnsureDir_ExistingDirectory(t *testing.T) {
	base := t.TempDir()

	_, err := fileutil.EnsureDir(base)
	require.Nil(t, err)
	_, err = fileutil.EnsureDir(base)
	assert.Nil(t, err)
}

func TestEnsureDir_PathIsAFile(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "occupied")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := fileutil.EnsureDir(file, "child")
	require.NotNil(t, err)

	var fileErr *fileutil.FileError
	require.True(t, errors.As(err, &fileErr))
	assert.Equal(t, fileutil.ErrCausePathError, fileErr.Cause)
	assert.Equal(t, failure.SeverityFatal, err.Severity())
}
