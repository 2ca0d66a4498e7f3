package program

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"confprog/internal/sessionize"
)

// WarningCode classifies a per-record data-quality issue.
type WarningCode string

const (
	WarnBadTime      WarningCode = "bad_time"      // time text could not be parsed; session excluded
	WarnInvalidRange WarningCode = "invalid_range" // end not after start; session excluded
	WarnDuplicateID  WarningCode = "duplicate_id"  // same source id seen twice; later record kept
	WarnNoSpeakers   WarningCode = "no_speakers"   // session kept with an empty speaker list
)

// Warning records one issue encountered during normalization. Warnings never
// abort a run; they ride along on the emitted Program.
type Warning struct {
	Code     WarningCode `json:"code"`
	SourceID string      `json:"source_id,omitempty"`
	Title    string      `json:"title,omitempty"`
	Detail   string      `json:"detail"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s (%s %q): %s", w.Code, w.SourceID, w.Title, w.Detail)
}

// Options configures a normalization run.
type Options struct {
	Location   *time.Location // reference timezone; nil means UTC
	DateFormat string         // layout for the date part of textual time ranges
	Year       int            // conference year for date layouts without one
}

// Normalizer accumulates parsed records into validated entities. Its
// registries live for exactly one run: sources with multiple pages feed all
// their records through one Normalizer so de-duplication and ordering stay
// global, then discard it.
type Normalizer struct {
	loc        *time.Location
	dateFormat string
	year       int

	sessions map[string]*Session
	speakers map[string]*Speaker
	rooms    map[string]*Room
	warnings []Warning
}

// NewNormalizer creates a Normalizer with fresh registries.
func NewNormalizer(opts Options) *Normalizer {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{
		loc:        loc,
		dateFormat: opts.DateFormat,
		year:       opts.Year,
		sessions:   make(map[string]*Session),
		speakers:   make(map[string]*Speaker),
		rooms:      make(map[string]*Room),
	}
}

// Normalize runs a single batch of session records through a fresh
// Normalizer and emits the resulting Program.
func Normalize(records []sessionize.SessionRecord, opts Options) *Program {
	n := NewNormalizer(opts)
	n.AddSessions(KindSession, records)
	return n.Program()
}

// AddSessions normalizes one page's worth of session records, tagging each
// resulting session with kind.
func (n *Normalizer) AddSessions(kind string, records []sessionize.SessionRecord) {
	for _, rec := range records {
		n.addSession(kind, rec)
	}
}

func (n *Normalizer) addSession(kind string, rec sessionize.SessionRecord) {
	title := strings.TrimSpace(rec.Title)
	sourceID := strings.TrimSpace(rec.ID)
	if sourceID == "" {
		// The page assigns ids to every entry; a missing one still needs a
		// stable de-duplication key, so fall back to the normalized title.
		sourceID = NormalizeKey(title)
	}

	start, end, err := ParseTimeRange(rec.TimeText, n.loc, n.dateFormat, n.year)
	if err != nil {
		n.warn(WarnBadTime, sourceID, title, err.Error())
		return
	}
	if !end.After(start) {
		n.warn(WarnInvalidRange, sourceID, title,
			fmt.Sprintf("end %s is not after start %s", end.Format(time.RFC3339), start.Format(time.RFC3339)))
		return
	}

	speakerKeys := make([]string, 0, 2)
	for _, name := range SplitSpeakerText(rec.SpeakerText) {
		if key := n.registerSpeaker(name); key != "" {
			speakerKeys = append(speakerKeys, key)
		}
	}
	if len(speakerKeys) == 0 {
		n.warn(WarnNoSpeakers, sourceID, title, "no resolvable speakers; session kept with an empty speaker list")
	}

	roomKey := n.registerRoom(rec.RoomName, rec.RoomID)

	if _, exists := n.sessions[sourceID]; exists {
		n.warn(WarnDuplicateID, sourceID, title, "source emitted a duplicate or updated entry; later occurrence kept")
	}

	n.sessions[sourceID] = &Session{
		SourceID:    sourceID,
		Title:       title,
		Description: strings.TrimSpace(rec.Description),
		Kind:        kind,
		Start:       start,
		End:         end,
		Speakers:    speakerKeys,
		Room:        roomKey,
	}
}

// AddSpeakerDetails enriches speakers already in the registry with profile
// data from the speakers page. Speakers are created only when a session
// references them, so unknown names here are ignored.
func (n *Normalizer) AddSpeakerDetails(records []sessionize.SpeakerRecord) {
	for _, rec := range records {
		key := NormalizeKey(rec.Name)
		sp, ok := n.speakers[key]
		if !ok {
			continue
		}
		if rec.Tagline != "" {
			sp.Tagline = rec.Tagline
		}
		if rec.Bio != "" {
			sp.Bio = rec.Bio
		}
		if rec.AvatarURL != "" {
			sp.AvatarURL = rec.AvatarURL
		}
		if len(rec.Links) > 0 {
			if sp.Links == nil {
				sp.Links = make(map[string]string, len(rec.Links))
			}
			for label, url := range rec.Links {
				sp.Links[label] = url
			}
		}
	}
}

// Program emits the accumulated entities, sorted deterministically: sessions
// by start time ascending, ties broken lexicographically by title.
func (n *Normalizer) Program() *Program {
	sessions := make([]*Session, 0, len(n.sessions))
	for _, s := range n.sessions {
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].Start.Equal(sessions[j].Start) {
			return sessions[i].Start.Before(sessions[j].Start)
		}
		return sessions[i].Title < sessions[j].Title
	})

	return &Program{
		Timezone:    n.loc.String(),
		GeneratedAt: time.Now().UTC(),
		Sessions:    sessions,
		Speakers:    n.speakers,
		Rooms:       n.rooms,
		Warnings:    n.warnings,
	}
}

func (n *Normalizer) registerSpeaker(name string) string {
	display := strings.Join(strings.Fields(name), " ")
	key := NormalizeKey(display)
	if key == "" {
		return ""
	}
	if _, ok := n.speakers[key]; !ok {
		n.speakers[key] = &Speaker{Key: key, Name: display}
	}
	return key
}

func (n *Normalizer) registerRoom(name, sourceID string) string {
	display := strings.Join(strings.Fields(name), " ")
	key := NormalizeKey(display)
	if key == "" {
		return ""
	}
	if _, ok := n.rooms[key]; !ok {
		n.rooms[key] = &Room{Key: key, Name: display, SourceID: strings.TrimSpace(sourceID)}
	}
	return key
}

func (n *Normalizer) warn(code WarningCode, sourceID, title, detail string) {
	n.warnings = append(n.warnings, Warning{
		Code:     code,
		SourceID: sourceID,
		Title:    title,
		Detail:   detail,
	})
}

// andSeparator matches the word "and" or an ampersand between two names.
var andSeparator = regexp.MustCompile(`\s+(?:and|&)\s+`)

// SplitSpeakerText splits raw speaker text into individual names using the
// source's delimiter conventions: commas first, then "and"/"&" within each
// piece. Empty pieces are dropped.
func SplitSpeakerText(text string) []string {
	names := make([]string, 0, 2)
	for _, piece := range strings.Split(text, ",") {
		for _, name := range andSeparator.Split(piece, -1) {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}
