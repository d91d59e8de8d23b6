package store

import (
	"fmt"
	"path/filepath"

	"github.com/rohmanhakim/content-gate/pkg/fileutil"
)

type Backend string

const (
	BackendLevelDB Backend = "leveldb"
	BackendSQLite  Backend = "sqlite"
	BackendMemory  Backend = "memory"
)

func (b Backend) Valid() bool {
	switch b {
	case BackendLevelDB, BackendSQLite, BackendMemory:
		return true
	}
	return false
}

// Open creates dataDir if needed and opens the requested backend inside it.
// The memory backend ignores dataDir.
func Open(backend Backend, dataDir string) (Store, error) {
	if backend == BackendMemory {
		return NewMemoryStore(), nil
	}
	if !backend.Valid() {
		return nil, &StoreError{Message: fmt.Sprintf("%q", backend), Cause: ErrCauseUnknownBackend}
	}

	dir, ferr := fileutil.EnsureDir(dataDir)
	if ferr != nil {
		return nil, &StoreError{Message: ferr.Error(), Cause: ErrCauseOpen}
	}

	if backend == BackendSQLite {
		s, err := OpenSQLite(filepath.Join(dir, "content-gate.sqlite"))
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	s, err := OpenLevelDB(filepath.Join(dir, "leveldb"))
	if err != nil {
		return nil, err
	}
	return s, nil
}
