package program

import (
	"testing"
	"time"
)

func TestParseTimeRange(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("loading location: %v", err)
	}

	tests := []struct {
		name      string
		text      string
		loc       *time.Location
		year      int
		wantStart time.Time
		wantEnd   time.Time
		wantErr   bool
	}{
		{
			name:      "schedule attribute without offsets",
			text:      "Europe/Berlin|CEST|2023-06-01T09:00:00|2023-06-01T09:45:00",
			loc:       berlin,
			wantStart: time.Date(2023, 6, 1, 9, 0, 0, 0, berlin),
			wantEnd:   time.Date(2023, 6, 1, 9, 45, 0, 0, berlin),
		},
		{
			name:      "schedule attribute with RFC3339 offsets",
			text:      "UTC|UTC|2023-06-01T07:00:00Z|2023-06-01T07:45:00Z",
			loc:       berlin,
			wantStart: time.Date(2023, 6, 1, 9, 0, 0, 0, berlin),
			wantEnd:   time.Date(2023, 6, 1, 9, 45, 0, 0, berlin),
		},
		{
			name:      "textual range with en dash",
			text:      "09:00–09:45, June 1",
			loc:       time.UTC,
			year:      2023,
			wantStart: time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2023, 6, 1, 9, 45, 0, 0, time.UTC),
		},
		{
			name:      "textual range with hyphen",
			text:      "10:00 - 10:45, June 2",
			loc:       time.UTC,
			year:      2023,
			wantStart: time.Date(2023, 6, 2, 10, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2023, 6, 2, 10, 45, 0, 0, time.UTC),
		},
		{
			name:      "textual range with to",
			text:      "9:00 to 9:30, June 1",
			loc:       time.UTC,
			year:      2023,
			wantStart: time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2023, 6, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			name:    "unparsable text",
			text:    "TBD",
			loc:     time.UTC,
			wantErr: true,
		},
		{
			name:    "empty text",
			text:    "",
			loc:     time.UTC,
			wantErr: true,
		},
		{
			name:    "range without date part",
			text:    "09:00–09:45",
			loc:     time.UTC,
			year:    2023,
			wantErr: true,
		},
		{
			name:    "truncated schedule attribute",
			text:    "Europe/Berlin|CEST|2023-06-01T09:00:00",
			loc:     berlin,
			wantErr: true,
		},
		{
			name:    "garbage timestamps in schedule attribute",
			text:    "a|b|not-a-time|also-not",
			loc:     berlin,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := ParseTimeRange(tt.text, tt.loc, "", tt.year)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s / %s", start, end)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeRange(%q) failed: %v", tt.text, err)
			}
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %s, expected %s", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end = %s, expected %s", end, tt.wantEnd)
			}
		})
	}
}

func TestParseTimeRangeCustomDateFormat(t *testing.T) {
	start, end, err := ParseTimeRange("09:00–09:45, 01.06.2023", time.UTC, "02.01.2006", 0)
	if err != nil {
		t.Fatalf("ParseTimeRange failed: %v", err)
	}
	if !start.Equal(time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start: %s", start)
	}
	if !end.Equal(time.Date(2023, 6, 1, 9, 45, 0, 0, time.UTC)) {
		t.Errorf("unexpected end: %s", end)
	}
}
