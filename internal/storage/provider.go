// Package storage defines the read-only content directory abstraction.
// Content files are owned by the content pipeline; the application only
// lists and reads them.
package storage

import "time"

// FileMeta is a lightweight representation returned by list operations.
type FileMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Provider is the interface for content file operations.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to content root).
	List(dir string) ([]FileMeta, error)
	// Read returns the raw bytes of the file at path (relative to content root).
	Read(path string) ([]byte, error)
}
