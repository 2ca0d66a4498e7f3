package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"confprog/internal/config"
	"confprog/internal/program"
)

func testProgram(t *testing.T) *program.Program {
	t.Helper()
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("loading location: %v", err)
	}

	return &program.Program{
		Timezone:    "Europe/Berlin",
		GeneratedAt: time.Date(2023, 5, 20, 12, 0, 0, 0, time.UTC),
		Sessions: []*program.Session{
			{
				SourceID:    "448001",
				Title:       "Opening Keynote",
				Description: "Welcome.",
				Kind:        program.KindSession,
				Start:       time.Date(2023, 6, 1, 9, 0, 0, 0, berlin),
				End:         time.Date(2023, 6, 1, 9, 45, 0, 0, berlin),
				Speakers:    []string{"jane doe"},
				Room:        "main stage",
			},
			{
				SourceID: "448002",
				Title:    "Profiling Production Services",
				Kind:     program.KindWorkshop,
				Start:    time.Date(2023, 6, 1, 10, 0, 0, 0, berlin),
				End:      time.Date(2023, 6, 1, 10, 45, 0, 0, berlin),
				Speakers: []string{"john roe", "jane doe"},
				Room:     "",
			},
		},
		Speakers: map[string]*program.Speaker{
			"jane doe": {
				Key:       "jane doe",
				Name:      "Jane Doe",
				Tagline:   "Principal Engineer",
				Bio:       "Ships things.",
				AvatarURL: "https://example.org/jane.jpg",
				Links:     map[string]string{"Blog": "https://example.org/jane"},
			},
			"john roe": {Key: "john roe", Name: "John Roe"},
		},
		Rooms: map[string]*program.Room{
			"main stage": {Key: "main stage", Name: "Main Stage", SourceID: "7001"},
		},
		Warnings: []program.Warning{
			{Code: program.WarnNoSpeakers, SourceID: "x", Detail: "run metadata, must not persist"},
		},
	}
}

func roundTrip(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Load(ctx); !errors.Is(err, ErrNoProgram) {
		t.Fatalf("expected ErrNoProgram before first save, got %v", err)
	}

	original := testProgram(t)
	if err := s.Save(ctx, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !original.Equal(loaded) {
		t.Errorf("round trip lost data:\noriginal: %+v\nloaded:   %+v", original, loaded)
	}
	if len(loaded.Warnings) != 0 {
		t.Errorf("warnings must not be persisted, got %v", loaded.Warnings)
	}
	if loaded.Sessions[0].Start.Location().String() != "Europe/Berlin" {
		t.Errorf("times should be restored into the reference zone, got %s",
			loaded.Sessions[0].Start.Location())
	}
	if got := loaded.SpeakerNames(loaded.Sessions[1]); len(got) != 2 || got[0] != "John Roe" {
		t.Errorf("speaker order must survive the round trip, got %v", got)
	}
}

func TestJSONStoreRoundTrip(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "store-json-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	s := NewJSONStore(filepath.Join(tmpDir, "program.json"))
	defer s.Close()
	roundTrip(t, s)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "store-sqlite-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	s, err := OpenSQLiteStore(filepath.Join(tmpDir, "program.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteStore failed: %v", err)
	}
	defer s.Close()
	roundTrip(t, s)
}

func TestSQLiteStoreSaveReplaces(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "store-sqlite-replace-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	s, err := OpenSQLiteStore(filepath.Join(tmpDir, "program.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteStore failed: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Save(ctx, testProgram(t)); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	smaller := testProgram(t)
	smaller.Sessions = smaller.Sessions[:1]
	if err := s.Save(ctx, smaller); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Sessions) != 1 {
		t.Errorf("Save must replace, not append; got %d sessions", len(loaded.Sessions))
	}
}

func TestOpenDispatch(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "store-open-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	tests := []struct {
		backend string
		wantErr bool
	}{
		{"json", false},
		{"sqlite", false},
		{"etcd", true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := config.Default()
			cfg.Storage.Backend = tt.backend
			cfg.Storage.DataDir = filepath.Join(tmpDir, tt.backend)

			s, err := Open(cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error for unknown backend")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			defer s.Close()
		})
	}
}
