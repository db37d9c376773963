// Package storage provides Store adapters for the ledger: flat JSON files,
// S3 objects, an embedded SQLite database, and an in-memory double for tests.
// Every adapter persists one whole document per user and rewrites it in full
// on save.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"nutriagent/ledger"
)

// Memory is an in-memory Store used in tests and the mock coordinator. It
// keeps serialized documents so loads hand out independent copies.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
	err  error
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

// NewMemoryWithError returns a Memory whose every operation fails with a
// storage error wrapping err.
func NewMemoryWithError(err error) *Memory {
	return &Memory{docs: make(map[string][]byte), err: err}
}

func (m *Memory) Load(ctx context.Context, name string) (*ledger.UserLedger, error) {
	if m.err != nil {
		return nil, &ledger.StorageError{Op: "load", User: ledger.Key(name), Err: m.err}
	}
	m.mu.RLock()
	doc, ok := m.docs[ledger.Key(name)]
	m.mu.RUnlock()
	if !ok {
		return nil, ledger.ErrNotFound
	}
	var l ledger.UserLedger
	if err := json.Unmarshal(doc, &l); err != nil {
		return nil, &ledger.StorageError{Op: "load", User: ledger.Key(name), Err: err}
	}
	return &l, nil
}

func (m *Memory) Save(ctx context.Context, l *ledger.UserLedger) error {
	if m.err != nil {
		return &ledger.StorageError{Op: "save", User: ledger.Key(l.Name), Err: m.err}
	}
	doc, err := json.Marshal(l)
	if err != nil {
		return &ledger.StorageError{Op: "save", User: ledger.Key(l.Name), Err: err}
	}
	m.mu.Lock()
	m.docs[ledger.Key(l.Name)] = doc
	m.mu.Unlock()
	return nil
}

// Len reports how many users have been saved.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func encode(l *ledger.UserLedger) ([]byte, error) {
	doc, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal ledger: %w", err)
	}
	return doc, nil
}

func decode(doc []byte) (*ledger.UserLedger, error) {
	var l ledger.UserLedger
	if err := json.Unmarshal(doc, &l); err != nil {
		return nil, fmt.Errorf("unmarshal ledger: %w", err)
	}
	return &l, nil
}
