package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"confprog/internal/program"
)

// SQLiteStore persists the program in a SQLite database, one table per
// entity plus a link table for the session-speaker relation.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS program_meta (
        id INTEGER PRIMARY KEY CHECK (id = 1),
        timezone TEXT NOT NULL,
        generated_at TEXT NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS speakers (
        key TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        tagline TEXT NOT NULL DEFAULT '',
        bio TEXT NOT NULL DEFAULT '',
        avatar_url TEXT NOT NULL DEFAULT '',
        links_json TEXT NOT NULL DEFAULT ''
    )`,
	`CREATE TABLE IF NOT EXISTS rooms (
        key TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        source_id TEXT NOT NULL DEFAULT ''
    )`,
	`CREATE TABLE IF NOT EXISTS sessions (
        source_id TEXT PRIMARY KEY,
        title TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        kind TEXT NOT NULL DEFAULT '',
        track TEXT NOT NULL DEFAULT '',
        start_time TEXT NOT NULL,
        end_time TEXT NOT NULL,
        room_key TEXT NOT NULL DEFAULT ''
    )`,
	`CREATE TABLE IF NOT EXISTS session_speakers (
        session_id TEXT NOT NULL REFERENCES sessions(source_id) ON DELETE CASCADE,
        position INTEGER NOT NULL,
        speaker_key TEXT NOT NULL REFERENCES speakers(key),
        PRIMARY KEY (session_id, position)
    )`,
}

// OpenSQLiteStore opens or creates the database at path and ensures the
// schema exists.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	for _, stmt := range sqliteSchema {
		if _, execErr := db.Exec(stmt); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", execErr)
		}
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save replaces the stored program with p in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, p *program.Program) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"session_speakers", "sessions", "rooms", "speakers", "program_meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	generatedAt := p.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO program_meta (id, timezone, generated_at) VALUES (1, ?, ?)`,
		p.Timezone, generatedAt.Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}

	for _, sp := range p.Speakers {
		linksJSON := ""
		if len(sp.Links) > 0 {
			data, err := json.Marshal(sp.Links)
			if err != nil {
				return fmt.Errorf("marshal links for %q: %w", sp.Key, err)
			}
			linksJSON = string(data)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO speakers (key, name, tagline, bio, avatar_url, links_json)
             VALUES (?, ?, ?, ?, ?, ?)`,
			sp.Key, sp.Name, sp.Tagline, sp.Bio, sp.AvatarURL, linksJSON,
		); err != nil {
			return fmt.Errorf("insert speaker %q: %w", sp.Key, err)
		}
	}

	for _, room := range p.Rooms {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rooms (key, name, source_id) VALUES (?, ?, ?)`,
			room.Key, room.Name, room.SourceID,
		); err != nil {
			return fmt.Errorf("insert room %q: %w", room.Key, err)
		}
	}

	for _, sess := range p.Sessions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (source_id, title, description, kind, track, start_time, end_time, room_key)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sess.SourceID, sess.Title, sess.Description, sess.Kind, sess.Track,
			sess.Start.Format(time.RFC3339), sess.End.Format(time.RFC3339), sess.Room,
		); err != nil {
			return fmt.Errorf("insert session %q: %w", sess.SourceID, err)
		}
		for i, key := range sess.Speakers {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO session_speakers (session_id, position, speaker_key) VALUES (?, ?, ?)`,
				sess.SourceID, i, key,
			); err != nil {
				return fmt.Errorf("insert session speaker %q/%q: %w", sess.SourceID, key, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Load reconstructs the stored program. Returns ErrNoProgram when nothing
// has been saved.
func (s *SQLiteStore) Load(ctx context.Context) (*program.Program, error) {
	p := &program.Program{
		Sessions: make([]*program.Session, 0),
		Speakers: make(map[string]*program.Speaker),
		Rooms:    make(map[string]*program.Room),
	}

	var generatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT timezone, generated_at FROM program_meta WHERE id = 1`,
	).Scan(&p.Timezone, &generatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNoProgram
	}
	if err != nil {
		return nil, fmt.Errorf("load meta: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, generatedAt); err == nil {
		p.GeneratedAt = t
	}

	if err := s.loadSpeakers(ctx, p); err != nil {
		return nil, err
	}
	if err := s.loadRooms(ctx, p); err != nil {
		return nil, err
	}
	if err := s.loadSessions(ctx, p); err != nil {
		return nil, err
	}

	restoreLocation(p)

	// Stored times are RFC3339 text; re-sort in Go so ordering stays correct
	// even when offsets differ across a DST boundary.
	sort.Slice(p.Sessions, func(i, j int) bool {
		if !p.Sessions[i].Start.Equal(p.Sessions[j].Start) {
			return p.Sessions[i].Start.Before(p.Sessions[j].Start)
		}
		return p.Sessions[i].Title < p.Sessions[j].Title
	})

	return p, nil
}

func (s *SQLiteStore) loadSpeakers(ctx context.Context, p *program.Program) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, name, tagline, bio, avatar_url, links_json FROM speakers`)
	if err != nil {
		return fmt.Errorf("load speakers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sp program.Speaker
		var linksJSON string
		if err := rows.Scan(&sp.Key, &sp.Name, &sp.Tagline, &sp.Bio, &sp.AvatarURL, &linksJSON); err != nil {
			return fmt.Errorf("scan speaker: %w", err)
		}
		if linksJSON != "" {
			if err := json.Unmarshal([]byte(linksJSON), &sp.Links); err != nil {
				return fmt.Errorf("parse links for %q: %w", sp.Key, err)
			}
		}
		p.Speakers[sp.Key] = &sp
	}
	return rows.Err()
}

func (s *SQLiteStore) loadRooms(ctx context.Context, p *program.Program) error {
	rows, err := s.db.QueryContext(ctx, `SELECT key, name, source_id FROM rooms`)
	if err != nil {
		return fmt.Errorf("load rooms: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var room program.Room
		if err := rows.Scan(&room.Key, &room.Name, &room.SourceID); err != nil {
			return fmt.Errorf("scan room: %w", err)
		}
		p.Rooms[room.Key] = &room
	}
	return rows.Err()
}

func (s *SQLiteStore) loadSessions(ctx context.Context, p *program.Program) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_id, title, description, kind, track, start_time, end_time, room_key
         FROM sessions ORDER BY start_time, title`)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		sess := &program.Session{Speakers: make([]string, 0)}
		var startText, endText string
		if err := rows.Scan(&sess.SourceID, &sess.Title, &sess.Description, &sess.Kind,
			&sess.Track, &startText, &endText, &sess.Room); err != nil {
			return fmt.Errorf("scan session: %w", err)
		}
		if sess.Start, err = time.Parse(time.RFC3339, startText); err != nil {
			return fmt.Errorf("parse start time for %q: %w", sess.SourceID, err)
		}
		if sess.End, err = time.Parse(time.RFC3339, endText); err != nil {
			return fmt.Errorf("parse end time for %q: %w", sess.SourceID, err)
		}
		p.Sessions = append(p.Sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	linkRows, err := s.db.QueryContext(ctx,
		`SELECT session_id, speaker_key FROM session_speakers ORDER BY session_id, position`)
	if err != nil {
		return fmt.Errorf("load session speakers: %w", err)
	}
	defer linkRows.Close()

	byID := make(map[string]*program.Session, len(p.Sessions))
	for _, sess := range p.Sessions {
		byID[sess.SourceID] = sess
	}
	for linkRows.Next() {
		var sessionID, speakerKey string
		if err := linkRows.Scan(&sessionID, &speakerKey); err != nil {
			return fmt.Errorf("scan session speaker: %w", err)
		}
		if sess, ok := byID[sessionID]; ok {
			sess.Speakers = append(sess.Speakers, speakerKey)
		}
	}
	return linkRows.Err()
}
