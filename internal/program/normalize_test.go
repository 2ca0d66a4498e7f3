package program

import (
	"testing"
	"time"

	"confprog/internal/sessionize"
)

func TestNormalizeSingleRecord(t *testing.T) {
	records := []sessionize.SessionRecord{
		{
			ID:          "s1",
			Title:       "Intro to X",
			TimeText:    "09:00–09:45, June 1",
			SpeakerText: "Jane Doe, John Roe",
			RoomName:    "Hall A",
		},
	}

	p := Normalize(records, Options{Location: time.UTC, Year: 2023})

	if len(p.Warnings) != 0 {
		t.Fatalf("expected zero warnings, got %v", p.Warnings)
	}
	if len(p.Sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(p.Sessions))
	}

	s := p.Sessions[0]
	if s.Title != "Intro to X" {
		t.Errorf("unexpected title: %q", s.Title)
	}
	wantStart := time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2023, 6, 1, 9, 45, 0, 0, time.UTC)
	if !s.Start.Equal(wantStart) {
		t.Errorf("start = %s, expected %s", s.Start, wantStart)
	}
	if !s.End.Equal(wantEnd) {
		t.Errorf("end = %s, expected %s", s.End, wantEnd)
	}

	if len(p.Speakers) != 2 {
		t.Errorf("expected 2 speakers, got %d", len(p.Speakers))
	}
	names := p.SpeakerNames(s)
	if len(names) != 2 || names[0] != "Jane Doe" || names[1] != "John Roe" {
		t.Errorf("unexpected speaker names: %v", names)
	}

	if len(p.Rooms) != 1 {
		t.Errorf("expected 1 room, got %d", len(p.Rooms))
	}
	if got := p.RoomName(s); got != "Hall A" {
		t.Errorf("expected room 'Hall A', got %q", got)
	}
}

func TestNormalizeUnparsableTime(t *testing.T) {
	records := []sessionize.SessionRecord{
		{ID: "s1", Title: "Mystery Slot", TimeText: "TBD"},
		{ID: "s2", Title: "Real Talk", TimeText: "10:00–10:45, June 1", SpeakerText: "Jane Doe"},
	}

	p := Normalize(records, Options{Location: time.UTC, Year: 2023})

	if len(p.Sessions) != 1 {
		t.Fatalf("expected the valid session to survive, got %d sessions", len(p.Sessions))
	}
	if p.Sessions[0].SourceID != "s2" {
		t.Errorf("expected session s2, got %q", p.Sessions[0].SourceID)
	}

	if len(p.Warnings) != 1 {
		t.Fatalf("expected exactly 1 warning, got %d", len(p.Warnings))
	}
	w := p.Warnings[0]
	if w.Code != WarnBadTime {
		t.Errorf("expected code %q, got %q", WarnBadTime, w.Code)
	}
	if w.SourceID != "s1" {
		t.Errorf("warning should reference id 's1', got %q", w.SourceID)
	}
}

func TestNormalizeDuplicateID(t *testing.T) {
	records := []sessionize.SessionRecord{
		{ID: "s1", Title: "First Title", TimeText: "09:00–09:45, June 1", SpeakerText: "Jane Doe"},
		{ID: "s1", Title: "Updated Title", TimeText: "09:00–09:45, June 1", SpeakerText: "Jane Doe"},
	}

	p := Normalize(records, Options{Location: time.UTC, Year: 2023})

	if len(p.Sessions) != 1 {
		t.Fatalf("expected 1 session after dedupe, got %d", len(p.Sessions))
	}
	if p.Sessions[0].Title != "Updated Title" {
		t.Errorf("later record should win, got title %q", p.Sessions[0].Title)
	}
	if len(p.Warnings) != 1 || p.Warnings[0].Code != WarnDuplicateID {
		t.Errorf("expected one duplicate_id warning, got %v", p.Warnings)
	}
}

func TestNormalizeSpeakerIdentity(t *testing.T) {
	records := []sessionize.SessionRecord{
		{ID: "s1", Title: "A", TimeText: "09:00–09:45, June 1", SpeakerText: "Jane Doe"},
		{ID: "s2", Title: "B", TimeText: "10:00–10:45, June 1", SpeakerText: " jane  doe "},
	}

	p := Normalize(records, Options{Location: time.UTC, Year: 2023})

	if len(p.Speakers) != 1 {
		t.Fatalf("expected a single Speaker entity, got %d", len(p.Speakers))
	}
	sp, ok := p.Speakers["jane doe"]
	if !ok {
		t.Fatal("expected speaker keyed by normalized name 'jane doe'")
	}
	if sp.Name != "Jane Doe" {
		t.Errorf("first-seen spelling should be kept as display name, got %q", sp.Name)
	}

	if p.Sessions[0].Speakers[0] != p.Sessions[1].Speakers[0] {
		t.Error("both sessions should reference the same speaker key")
	}
}

func TestNormalizeRoomIdentity(t *testing.T) {
	records := []sessionize.SessionRecord{
		{ID: "s1", Title: "A", TimeText: "09:00–09:45, June 1", SpeakerText: "X", RoomName: "Hall A"},
		{ID: "s2", Title: "B", TimeText: "10:00–10:45, June 1", SpeakerText: "Y", RoomName: "  HALL  a "},
	}

	p := Normalize(records, Options{Location: time.UTC, Year: 2023})

	if len(p.Rooms) != 1 {
		t.Fatalf("expected a single Room entity, got %d", len(p.Rooms))
	}
	if p.Sessions[0].Room != p.Sessions[1].Room {
		t.Error("both sessions should reference the same room key")
	}
}

func TestNormalizeZeroSpeakers(t *testing.T) {
	records := []sessionize.SessionRecord{
		{ID: "s1", Title: "Hallway Track", TimeText: "09:00–09:45, June 1"},
	}

	p := Normalize(records, Options{Location: time.UTC, Year: 2023})

	if len(p.Sessions) != 1 {
		t.Fatal("session with zero speakers should be kept, not dropped")
	}
	if len(p.Sessions[0].Speakers) != 0 {
		t.Errorf("expected empty speaker list, got %v", p.Sessions[0].Speakers)
	}
	if len(p.Warnings) != 1 || p.Warnings[0].Code != WarnNoSpeakers {
		t.Errorf("expected one no_speakers warning, got %v", p.Warnings)
	}
}

func TestNormalizeInvalidRange(t *testing.T) {
	records := []sessionize.SessionRecord{
		{ID: "s1", Title: "Backwards", TimeText: "10:00–09:00, June 1", SpeakerText: "X"},
		{ID: "s2", Title: "Zero Length", TimeText: "10:00–10:00, June 1", SpeakerText: "X"},
	}

	p := Normalize(records, Options{Location: time.UTC, Year: 2023})

	if len(p.Sessions) != 0 {
		t.Fatalf("sessions with non-positive duration should be excluded, got %d", len(p.Sessions))
	}
	if len(p.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(p.Warnings))
	}
	for _, w := range p.Warnings {
		if w.Code != WarnInvalidRange {
			t.Errorf("expected code %q, got %q", WarnInvalidRange, w.Code)
		}
	}
}

func TestNormalizeOrdering(t *testing.T) {
	records := []sessionize.SessionRecord{
		{ID: "s1", Title: "Zeta", TimeText: "11:00–11:45, June 1", SpeakerText: "A"},
		{ID: "s2", Title: "Beta", TimeText: "09:00–09:45, June 1", SpeakerText: "B"},
		{ID: "s3", Title: "Alpha", TimeText: "11:00–11:45, June 1", SpeakerText: "C"},
	}

	p := Normalize(records, Options{Location: time.UTC, Year: 2023})

	got := make([]string, 0, len(p.Sessions))
	for _, s := range p.Sessions {
		got = append(got, s.Title)
	}
	want := []string{"Beta", "Alpha", "Zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: %v, expected %v", got, want)
		}
	}

	for i := 1; i < len(p.Sessions); i++ {
		if p.Sessions[i].Start.Before(p.Sessions[i-1].Start) {
			t.Error("sessions must be non-decreasingly ordered by start time")
		}
	}
}

func TestNormalizerAcrossPages(t *testing.T) {
	n := NewNormalizer(Options{Location: time.UTC, Year: 2023})
	n.AddSessions(KindSession, []sessionize.SessionRecord{
		{ID: "s1", Title: "Talk", TimeText: "09:00–09:45, June 1", SpeakerText: "Jane Doe"},
	})
	n.AddSessions(KindWorkshop, []sessionize.SessionRecord{
		{ID: "w1", Title: "Hands On", TimeText: "13:00–16:00, June 1", SpeakerText: "jane doe"},
	})

	p := n.Program()

	if len(p.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(p.Sessions))
	}
	if len(p.Speakers) != 1 {
		t.Errorf("speaker identity must be global across pages, got %d speakers", len(p.Speakers))
	}
	if p.Sessions[0].Kind != KindSession || p.Sessions[1].Kind != KindWorkshop {
		t.Errorf("unexpected kinds: %q, %q", p.Sessions[0].Kind, p.Sessions[1].Kind)
	}
}

func TestAddSpeakerDetails(t *testing.T) {
	n := NewNormalizer(Options{Location: time.UTC, Year: 2023})
	n.AddSessions(KindSession, []sessionize.SessionRecord{
		{ID: "s1", Title: "Talk", TimeText: "09:00–09:45, June 1", SpeakerText: "Jane Doe"},
	})
	n.AddSpeakerDetails([]sessionize.SpeakerRecord{
		{
			ID:        "aa11",
			Name:      "Jane Doe",
			Tagline:   "Principal Engineer",
			Bio:       "Ships things.",
			AvatarURL: "https://example.org/jane.jpg",
			Links:     map[string]string{"Blog": "https://example.org/jane"},
		},
		{
			// Not referenced by any session; must not create an entity.
			ID:   "zz99",
			Name: "Nobody Speaking",
		},
	})

	p := n.Program()

	if len(p.Speakers) != 1 {
		t.Fatalf("details for unreferenced speakers must not create entities, got %d speakers", len(p.Speakers))
	}
	sp := p.Speakers["jane doe"]
	if sp.Tagline != "Principal Engineer" || sp.Bio != "Ships things." {
		t.Errorf("speaker not enriched: %+v", sp)
	}
	if sp.Links["Blog"] != "https://example.org/jane" {
		t.Errorf("links not enriched: %v", sp.Links)
	}
}

func TestSplitSpeakerText(t *testing.T) {
	tests := []struct {
		text     string
		expected []string
	}{
		{"Jane Doe, John Roe", []string{"Jane Doe", "John Roe"}},
		{"Jane Doe and John Roe", []string{"Jane Doe", "John Roe"}},
		{"Jane Doe & John Roe", []string{"Jane Doe", "John Roe"}},
		{"Jane Doe, John Roe and Ada Example", []string{"Jane Doe", "John Roe", "Ada Example"}},
		{"  Jane Doe  ", []string{"Jane Doe"}},
		{"Alexandra Android", []string{"Alexandra Android"}},
		{"", nil},
		{" , ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := SplitSpeakerText(tt.text)
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, expected %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("got %v, expected %v", got, tt.expected)
				}
			}
		})
	}
}
