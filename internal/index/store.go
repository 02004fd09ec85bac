// Package index maintains a persistent symbol index over a tree of IFS
// source files, backed by SQLite. Each indexed file records its detected
// form and syntax error count; each top-level symbol records its kind,
// visibility and position so the search command can answer name lookups
// without re-parsing.
package index

import "time"

// File is one indexed source file.
type File struct {
	ID         string
	Path       string
	Form       string // File, Entity, Enumeration, Views, Storage
	ErrorCount int
	IndexedAt  time.Time
}

// Symbol is one top-level declaration extracted from a parsed tree.
type Symbol struct {
	ID         string
	FileID     string
	Path       string // denormalized for search results
	Name       string
	Kind       string // Procedure, Function, CursorDecl, ...
	Visibility string // public, protected, private
	Line       int
	Column     int
}

// Store is the persistence interface for the symbol index.
type Store interface {
	// Open opens or creates the database at path (":memory:" supported).
	Open(path string) error
	// Migrate brings the schema up to date.
	Migrate() error
	// SaveFile replaces the file record and all its symbols.
	SaveFile(f *File, symbols []*Symbol) error
	// Search returns symbols whose name matches the prefix,
	// case-insensitively, ordered by name then path.
	Search(prefix string, limit int) ([]*Symbol, error)
	// FilesWithErrors lists indexed files with a nonzero error count.
	FilesWithErrors() ([]*File, error)
	// Stats returns the number of indexed files and symbols.
	Stats() (files, symbols int, err error)
	Close() error
}
