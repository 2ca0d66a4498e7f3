package program

import (
	"strings"
	"time"
)

// Session kinds, matching the two Sessionize page types the source publishes.
const (
	KindSession  = "session"
	KindWorkshop = "workshop"
)

// Speaker is a person giving one or more sessions. Key is the normalized
// name (lowercase, whitespace-collapsed) and is unique within a run.
type Speaker struct {
	Key       string            `json:"key"`
	Name      string            `json:"name"`
	Tagline   string            `json:"tagline,omitempty"`
	Bio       string            `json:"bio,omitempty"`
	AvatarURL string            `json:"avatar_url,omitempty"`
	Links     map[string]string `json:"links,omitempty"`
}

// Room is a location sessions take place in, keyed like Speaker.
type Room struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	SourceID string `json:"source_id,omitempty"`
}

// Session is one scheduled talk or workshop. Speakers holds registry keys in
// source order; Room holds a registry key or "" when the room is unknown.
type Session struct {
	SourceID    string    `json:"source_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Kind        string    `json:"kind,omitempty"`
	Track       string    `json:"track,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Speakers    []string  `json:"speakers"`
	Room        string    `json:"room,omitempty"`
}

// Program is the validated output of one extraction run. Sessions are sorted
// by start time ascending, ties broken by title. Warnings are run metadata
// and are never persisted.
type Program struct {
	Timezone    string              `json:"timezone"`
	GeneratedAt time.Time           `json:"generated_at"`
	Sessions    []*Session          `json:"sessions"`
	Speakers    map[string]*Speaker `json:"speakers"`
	Rooms       map[string]*Room    `json:"rooms"`
	Warnings    []Warning           `json:"-"`
}

// NormalizeKey lowercases a name and collapses internal whitespace, giving
// the identity key used for speaker and room de-duplication.
func NormalizeKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// SpeakerNames resolves a session's speaker keys to display names, in order.
// Keys without a registry entry are skipped.
func (p *Program) SpeakerNames(s *Session) []string {
	names := make([]string, 0, len(s.Speakers))
	for _, key := range s.Speakers {
		if sp, ok := p.Speakers[key]; ok {
			names = append(names, sp.Name)
		}
	}
	return names
}

// RoomName resolves a session's room key to its display name, or "".
func (p *Program) RoomName(s *Session) string {
	if s.Room == "" {
		return ""
	}
	if room, ok := p.Rooms[s.Room]; ok {
		return room.Name
	}
	return ""
}

// Session returns the session with the given source id, or nil.
func (p *Program) Session(sourceID string) *Session {
	for _, s := range p.Sessions {
		if s.SourceID == sourceID {
			return s
		}
	}
	return nil
}

// Equal reports whether two programs describe the same entity sets.
// Warnings and GeneratedAt are run metadata and excluded; times are compared
// as instants, so the same program loaded in a different location still
// compares equal.
func (p *Program) Equal(other *Program) bool {
	if other == nil {
		return false
	}
	if p.Timezone != other.Timezone {
		return false
	}
	if len(p.Sessions) != len(other.Sessions) ||
		len(p.Speakers) != len(other.Speakers) ||
		len(p.Rooms) != len(other.Rooms) {
		return false
	}
	for i, s := range p.Sessions {
		if !s.Equal(other.Sessions[i]) {
			return false
		}
	}
	for key, sp := range p.Speakers {
		if !sp.Equal(other.Speakers[key]) {
			return false
		}
	}
	for key, room := range p.Rooms {
		o, ok := other.Rooms[key]
		if !ok || *room != *o {
			return false
		}
	}
	return true
}

// Equal reports whether two sessions carry the same values.
func (s *Session) Equal(other *Session) bool {
	if other == nil {
		return false
	}
	if s.SourceID != other.SourceID ||
		s.Title != other.Title ||
		s.Description != other.Description ||
		s.Kind != other.Kind ||
		s.Track != other.Track ||
		s.Room != other.Room {
		return false
	}
	if !s.Start.Equal(other.Start) || !s.End.Equal(other.End) {
		return false
	}
	if len(s.Speakers) != len(other.Speakers) {
		return false
	}
	for i, key := range s.Speakers {
		if key != other.Speakers[i] {
			return false
		}
	}
	return true
}

// Equal reports whether two speakers carry the same values.
func (sp *Speaker) Equal(other *Speaker) bool {
	if other == nil {
		return false
	}
	if sp.Key != other.Key ||
		sp.Name != other.Name ||
		sp.Tagline != other.Tagline ||
		sp.Bio != other.Bio ||
		sp.AvatarURL != other.AvatarURL {
		return false
	}
	if len(sp.Links) != len(other.Links) {
		return false
	}
	for label, url := range sp.Links {
		if other.Links[label] != url {
			return false
		}
	}
	return true
}
