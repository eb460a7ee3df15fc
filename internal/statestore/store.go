// Package statestore persists the user-owned state documents as versioned
// JSON files. Each document is independent and overwritten atomically on
// every save. Corrupted or unreadable documents are treated as absent so a
// damaged file degrades to a fresh start instead of a fatal error.
package statestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Doc names a persisted state document.
type Doc string

// Fixed document names. Consumers never invent new ones at runtime.
const (
	DocCompletions    Doc = "completions.json"
	DocFavorites      Doc = "favorites.json"
	DocGamification   Doc = "gamification.json"
	DocPreferences    Doc = "preferences.json"
	DocRecentSearches Doc = "recent_searches.json"
)

// State reports the outcome of a Load so consumers can distinguish "default
// because nothing was ever saved" from "not loaded yet".
type State int

// Load states.
const (
	StateUninitialized State = iota
	StateAbsent              // no usable document on disk; target left at defaults
	StateLoaded              // document decoded into the target
)

// Version is the current envelope schema version. Documents with a missing
// or unknown version are treated as absent.
const Version = 1

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// Store reads and writes state documents under a single directory.
type Store struct {
	root string
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("statestore: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("statestore: create root: %w", err)
	}
	return &Store{root: abs}, nil
}

// Load decodes the document into v. Missing, unparseable, or wrong-version
// documents leave v untouched and report StateAbsent with a nil error.
func (s *Store) Load(doc Doc, v any) (State, error) {
	data, err := os.ReadFile(s.path(doc))
	if err != nil {
		return StateAbsent, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return StateAbsent, nil
	}
	if env.Version != Version {
		return StateAbsent, nil
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return StateAbsent, nil
	}
	return StateLoaded, nil
}

// Save serializes v into a versioned envelope and overwrites the document
// atomically: tmp file → fsync → rename.
func (s *Store) Save(doc Doc, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("statestore: marshal %s: %w", doc, err)
	}
	payload, err := json.Marshal(envelope{Version: Version, Data: raw})
	if err != nil {
		return fmt.Errorf("statestore: marshal envelope %s: %w", doc, err)
	}

	tmp, err := os.CreateTemp(s.root, ".sowilo-tmp-*")
	if err != nil {
		return fmt.Errorf("statestore: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(payload); err != nil {
		return fmt.Errorf("statestore: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("statestore: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("statestore: close temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path(doc)); err != nil {
		return fmt.Errorf("statestore: rename: %w", err)
	}
	success = true
	return nil
}

func (s *Store) path(doc Doc) string {
	return filepath.Join(s.root, string(doc))
}
