package services

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the referenced beneficiary id does not exist.
var ErrNotFound = errors.New("beneficiary not found")

// AssetStoreError wraps a storage write or delete failure.
type AssetStoreError struct {
	Op   string // "put", "delete", "delete-tree"
	Path string
	Err  error
}

func (e *AssetStoreError) Error() string {
	return fmt.Sprintf("asset store %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *AssetStoreError) Unwrap() error { return e.Err }

// PersistenceError wraps any database failure other than a uniqueness
// violation or a missing record.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
