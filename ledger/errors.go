package ledger

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that an operation required an existing user ledger and
// none exists. First-ever save is the one sanctioned create-if-absent path.
var ErrNotFound = errors.New("user ledger not found")

// StorageError wraps a persistence fault (unreadable or unwritable backing
// store). It is never silently swallowed into an empty record.
type StorageError struct {
	Op   string // "load" or "save"
	User string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("ledger %s for %q: %v", e.Op, e.User, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
