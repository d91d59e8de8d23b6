package store

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// LevelDBStore persists entries in a LevelDB directory. Every Put is a
// synced write so a decision survives a crash right after it is made.
type LevelDBStore struct {
	db *leveldb.DB
}

func OpenLevelDB(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, &StoreError{
			Message: fmt.Sprintf("leveldb %s: %v", path, err),
			Cause:   ErrCauseOpen,
		}
	}
	return &LevelDBStore{db: db}, nil
}

func (s *LevelDBStore) Get(key string) (string, bool, error) {
	b, err := s.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, s.wrap(err, ErrCauseRead, key)
	}
	return string(b), true, nil
}

func (s *LevelDBStore) Put(key string, value string) error {
	if err := s.db.Put([]byte(key), []byte(value), &opt.WriteOptions{Sync: true}); err != nil {
		return s.wrap(err, ErrCauseWrite, key)
	}
	return nil
}

func (s *LevelDBStore) Close() error {
	if err := s.db.Close(); err != nil && !errors.Is(err, leveldb.ErrClosed) {
		return err
	}
	return nil
}

func (s *LevelDBStore) wrap(err error, cause StoreErrorCause, key string) *StoreError {
	if errors.Is(err, leveldb.ErrClosed) {
		cause = ErrCauseClosed
	}
	return &StoreError{
		Message:   err.Error(),
		Retryable: cause != ErrCauseClosed,
		Cause:     cause,
		Key:       key,
	}
}
