// Package filter narrows a program's session list for display.
//
// A Filter holds optional criteria; empty criteria match everything.
// Matching is case-insensitive substring matching for text fields and
// inclusive bounds for the date range.
package filter

import (
	"strings"
	"time"

	"confprog/internal/program"
)

// Filter represents session filtering criteria.
type Filter struct {
	// Find matches against title and description.
	Find string

	// Rooms matches resolved room names.
	Rooms []string

	// Speakers matches resolved speaker names.
	Speakers []string

	// Kinds matches session kinds exactly (case-insensitive).
	Kinds []string

	// Date range on session start, inclusive.
	From *time.Time
	To   *time.Time

	// WeekendsOnly keeps only sessions starting on Saturday or Sunday.
	WeekendsOnly bool
}

// New creates an empty filter that matches all sessions.
func New() *Filter {
	return &Filter{}
}

// Apply returns the sessions of p matching all active criteria, preserving
// the program's ordering.
func (f *Filter) Apply(p *program.Program) []*program.Session {
	matched := make([]*program.Session, 0, len(p.Sessions))
	for _, s := range p.Sessions {
		if f.matches(p, s) {
			matched = append(matched, s)
		}
	}
	return matched
}

func (f *Filter) matches(p *program.Program, s *program.Session) bool {
	if f.Find != "" && !containsFold(s.Title, f.Find) && !containsFold(s.Description, f.Find) {
		return false
	}
	if len(f.Rooms) > 0 && !anyContainsFold([]string{p.RoomName(s)}, f.Rooms) {
		return false
	}
	if len(f.Speakers) > 0 && !anyContainsFold(p.SpeakerNames(s), f.Speakers) {
		return false
	}
	if len(f.Kinds) > 0 && !matchesKind(s.Kind, f.Kinds) {
		return false
	}
	if f.From != nil && s.Start.Before(*f.From) {
		return false
	}
	if f.To != nil && s.Start.After(*f.To) {
		return false
	}
	if f.WeekendsOnly {
		day := s.Start.Weekday()
		if day != time.Saturday && day != time.Sunday {
			return false
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// anyContainsFold reports whether any value matches any pattern as a
// case-insensitive substring.
func anyContainsFold(values, patterns []string) bool {
	for _, v := range values {
		for _, pat := range patterns {
			if pat != "" && containsFold(v, pat) {
				return true
			}
		}
	}
	return false
}

func matchesKind(kind string, kinds []string) bool {
	for _, k := range kinds {
		if strings.EqualFold(kind, k) {
			return true
		}
	}
	return false
}
