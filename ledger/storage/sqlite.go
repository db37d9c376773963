package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"nutriagent/ledger"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS user_ledgers (
  user       TEXT PRIMARY KEY,
  doc        TEXT NOT NULL,
  updated_at TEXT NOT NULL
);`

// SQLite stores one serialized document per user row. The whole document is
// rewritten on every save, same as the file and S3 adapters.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// schema exists.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create ledger schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Load(ctx context.Context, name string) (*ledger.UserLedger, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM user_ledgers WHERE user = ?`, ledger.Key(name)).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
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

func (s *SQLite) Save(ctx context.Context, l *ledger.UserLedger) error {
	doc, err := encode(l)
	if err != nil {
		return &ledger.StorageError{Op: "save", User: ledger.Key(l.Name), Err: err}
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO user_ledgers(user, doc, updated_at) VALUES(?, ?, ?)
ON CONFLICT(user) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at
`, ledger.Key(l.Name), string(doc), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return &ledger.StorageError{Op: "save", User: ledger.Key(l.Name), Err: err}
	}
	return nil
}
