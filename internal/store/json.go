package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"confprog/internal/program"
)

// JSONStore persists the program as one indented JSON snapshot file.
type JSONStore struct {
	path string
}

// NewJSONStore creates a store writing to path. The file is created on the
// first Save.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Save writes the program snapshot, replacing any previous one.
func (s *JSONStore) Save(_ context.Context, p *program.Program) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding program: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing program: %w", err)
	}
	return nil
}

// Load reads the last saved snapshot. Returns ErrNoProgram when no snapshot
// exists yet.
func (s *JSONStore) Load(_ context.Context) (*program.Program, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoProgram
		}
		return nil, fmt.Errorf("reading program: %w", err)
	}

	var p program.Program
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing program: %w", err)
	}

	if p.Speakers == nil {
		p.Speakers = make(map[string]*program.Speaker)
	}
	if p.Rooms == nil {
		p.Rooms = make(map[string]*program.Room)
	}
	if p.Sessions == nil {
		p.Sessions = make([]*program.Session, 0)
	}

	restoreLocation(&p)
	return &p, nil
}

// Close is a no-op; the JSON store holds no resources between calls.
func (s *JSONStore) Close() error { return nil }
