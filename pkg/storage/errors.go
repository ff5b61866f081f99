package storage

import (
	"errors"
	"fmt"
)

// ErrInvalidName is returned for handles whose name would escape the store
// directory or does not name a record file.
var ErrInvalidName = errors.New("storage: invalid record name")

// StorageError reports an I/O failure on save, list, read, or delete.
type StorageError struct {
	Op   string
	Name string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Name, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
