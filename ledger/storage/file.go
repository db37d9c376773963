package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"nutriagent/ledger"
)

// File stores one <key>.json document per user under Dir. Saves go through a
// temp file followed by an atomic rename so a crash mid-write never leaves a
// truncated record behind.
type File struct {
	Dir string
}

func NewFile(dir string) *File {
	return &File{Dir: dir}
}

func (f *File) path(name string) string {
	return filepath.Join(f.Dir, ledger.Key(name)+".json")
}

func (f *File) Load(ctx context.Context, name string) (*ledger.UserLedger, error) {
	doc, err := os.ReadFile(f.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, &ledger.StorageError{Op: "load", User: ledger.Key(name), Err: err}
	}
	l, err := decode(doc)
	if err != nil {
		return nil, &ledger.StorageError{Op: "load", User: ledger.Key(name), Err: err}
	}
	return l, nil
}

func (f *File) Save(ctx context.Context, l *ledger.UserLedger) error {
	key := ledger.Key(l.Name)
	doc, err := encode(l)
	if err != nil {
		return &ledger.StorageError{Op: "save", User: key, Err: err}
	}

	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return &ledger.StorageError{Op: "save", User: key, Err: err}
	}

	tmp, err := os.CreateTemp(f.Dir, key+".*.tmp")
	if err != nil {
		return &ledger.StorageError{Op: "save", User: key, Err: err}
	}
	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &ledger.StorageError{Op: "save", User: key, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &ledger.StorageError{Op: "save", User: key, Err: err}
	}
	if err := os.Rename(tmp.Name(), f.path(l.Name)); err != nil {
		os.Remove(tmp.Name())
		return &ledger.StorageError{Op: "save", User: key, Err: err}
	}
	return nil
}
