package index

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new store instance. Call Open before use.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Open opens a connection to the SQLite database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
	} else {
		dsn = ":memory:?_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// SaveFile replaces the record for f.Path and all its symbols in one
// transaction. f.ID and symbol IDs are assigned here.
func (s *SQLiteStore) SaveFile(f *File, symbols []*Symbol) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Symbols cascade with the file row.
	if _, err := tx.Exec(`DELETE FROM files WHERE path = ?`, f.Path); err != nil {
		return fmt.Errorf("failed to delete stale file record: %w", err)
	}

	f.ID = generateID()
	f.IndexedAt = time.Now().UTC()
	if _, err := tx.Exec(
		`INSERT INTO files (id, path, form, error_count, indexed_at) VALUES (?, ?, ?, ?, ?)`,
		f.ID, f.Path, f.Form, f.ErrorCount, f.IndexedAt,
	); err != nil {
		return fmt.Errorf("failed to insert file record: %w", err)
	}

	for _, sym := range symbols {
		sym.ID = generateID()
		sym.FileID = f.ID
		sym.Path = f.Path
		if _, err := tx.Exec(
			`INSERT INTO symbols (id, file_id, name, kind, visibility, line, col) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sym.ID, sym.FileID, sym.Name, sym.Kind, sym.Visibility, sym.Line, sym.Column,
		); err != nil {
			return fmt.Errorf("failed to insert symbol %s: %w", sym.Name, err)
		}
	}

	return tx.Commit()
}

// Search returns symbols whose name starts with prefix, case-insensitively.
func (s *SQLiteStore) Search(prefix string, limit int) ([]*Symbol, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query(`
		SELECT sy.id, sy.file_id, f.path, sy.name, sy.kind, sy.visibility, sy.line, sy.col
		FROM symbols sy JOIN files f ON f.id = sy.file_id
		WHERE sy.name LIKE ? ESCAPE '\' COLLATE NOCASE
		ORDER BY sy.name COLLATE NOCASE, f.path
		LIMIT ?`,
		escapeLike(prefix)+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search symbols: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Symbol
	for rows.Next() {
		sym := &Symbol{}
		if err := rows.Scan(&sym.ID, &sym.FileID, &sym.Path, &sym.Name,
			&sym.Kind, &sym.Visibility, &sym.Line, &sym.Column); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

// FilesWithErrors lists indexed files carrying syntax errors.
func (s *SQLiteStore) FilesWithErrors() ([]*File, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(`
		SELECT id, path, form, error_count, indexed_at
		FROM files WHERE error_count > 0 ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*File
	for rows.Next() {
		f := &File{}
		if err := rows.Scan(&f.ID, &f.Path, &f.Form, &f.ErrorCount, &f.IndexedAt); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Stats returns the indexed file and symbol counts.
func (s *SQLiteStore) Stats() (files, symbols int, err error) {
	if s.db == nil {
		return 0, 0, fmt.Errorf("database not opened")
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&files); err != nil {
		return 0, 0, fmt.Errorf("failed to count files: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM symbols`).Scan(&symbols); err != nil {
		return 0, 0, fmt.Errorf("failed to count symbols: %w", err)
	}
	return files, symbols, nil
}

// escapeLike escapes LIKE metacharacters in a user-supplied prefix.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
