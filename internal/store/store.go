package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"confprog/internal/config"
	"confprog/internal/program"
)

// ErrNoProgram is returned by Load when nothing has been saved yet.
var ErrNoProgram = errors.New("no stored program")

// Store is the persistence port for extracted programs.
type Store interface {
	Save(ctx context.Context, p *program.Program) error
	Load(ctx context.Context) (*program.Program, error)
	Close() error
}

// Open creates the configured backend under the configured data directory.
func Open(cfg *config.Config) (Store, error) {
	dataDir, err := config.ExpandPath(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	switch cfg.Storage.Backend {
	case "json":
		return NewJSONStore(filepath.Join(dataDir, "program.json")), nil
	case "sqlite", "":
		return OpenSQLiteStore(filepath.Join(dataDir, "program.db"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// restoreLocation rewrites session times into the program's named timezone
// after loading. Serialized times keep their instant but lose the zone name;
// without this, a reloaded program would compare unequal on formatting.
func restoreLocation(p *program.Program) {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return
	}
	for _, s := range p.Sessions {
		s.Start = s.Start.In(loc)
		s.End = s.End.In(loc)
	}
}
