package program

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultDateFormat parses date text like "June 1". Layouts without a year
// take the conference year configured on the normalizer.
const DefaultDateFormat = "January 2"

// Timestamp layouts for the pipe-delimited schedule attribute. Layouts
// without an offset are interpreted in the reference timezone.
var stampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Clock layouts for textual time ranges.
var clockLayouts = []string{
	"15:04",
	"3:04 PM",
	"3:04PM",
}

// Separators that split the two halves of a textual clock range. The plain
// hyphen is tried last so it cannot split inside a date.
var rangeSeparators = []string{"–", "—", " to ", "-"}

// ParseTimeRange parses raw session time text into start and end times in
// loc. Two shapes are accepted: the page's pipe-delimited schedule attribute
// ("zone|label|start|end") and a textual range like "09:00–09:45, June 1"
// whose date part is parsed with dateFormat. The returned times always carry
// loc; validity of the range (end after start) is the caller's concern.
func ParseTimeRange(text string, loc *time.Location, dateFormat string, year int) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if dateFormat == "" {
		dateFormat = DefaultDateFormat
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, time.Time{}, errors.New("empty time text")
	}

	if strings.Contains(text, "|") {
		return parseScheduleAttr(text, loc)
	}
	return parseTextualRange(text, loc, dateFormat, year)
}

// parseScheduleAttr handles the "zone|label|start|end" attribute emitted by
// the source page; start and end sit at indices 2 and 3.
func parseScheduleAttr(text string, loc *time.Location) (time.Time, time.Time, error) {
	parts := strings.Split(text, "|")
	if len(parts) < 4 {
		return time.Time{}, time.Time{}, fmt.Errorf("schedule attribute has %d fields, want at least 4", len(parts))
	}

	start, err := parseStamp(parts[2], loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start time: %w", err)
	}
	end, err := parseStamp(parts[3], loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end time: %w", err)
	}
	return start, end, nil
}

func parseStamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range stampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// parseTextualRange handles "09:00–09:45, June 1" style text: a clock range,
// a comma, and a date in the configured format.
func parseTextualRange(text string, loc *time.Location, dateFormat string, year int) (time.Time, time.Time, error) {
	clockPart := text
	datePart := ""
	if idx := strings.Index(text, ","); idx >= 0 {
		clockPart = strings.TrimSpace(text[:idx])
		datePart = strings.TrimSpace(text[idx+1:])
	}
	if datePart == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("time text %q has no date part", text)
	}

	day, err := time.ParseInLocation(dateFormat, datePart, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("date %q: %w", datePart, err)
	}
	if day.Year() == 0 && year > 0 {
		day = time.Date(year, day.Month(), day.Day(), 0, 0, 0, 0, loc)
	}

	fromText, toText, err := splitClockRange(clockPart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	from, err := parseClock(fromText)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start clock: %w", err)
	}
	to, err := parseClock(toText)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end clock: %w", err)
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), from.Hour(), from.Minute(), 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), to.Hour(), to.Minute(), 0, 0, loc)
	return start, end, nil
}

func splitClockRange(clockPart string) (string, string, error) {
	for _, sep := range rangeSeparators {
		if strings.Contains(clockPart, sep) {
			pieces := strings.SplitN(clockPart, sep, 2)
			from := strings.TrimSpace(pieces[0])
			to := strings.TrimSpace(pieces[1])
			if from != "" && to != "" {
				return from, to, nil
			}
		}
	}
	return "", "", fmt.Errorf("text %q is not a time range", clockPart)
}

func parseClock(s string) (time.Time, error) {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized clock %q", s)
}
