// Package calendar renders sessions as an iCalendar (.ics) document.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"confprog/internal/program"
)

// GenerateICS renders the given sessions as one VCALENDAR with a VEVENT per
// session. Speaker and room references are resolved through p.
func GenerateICS(p *program.Program, sessions []*program.Session) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//confprog//confprog//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	stamp := formatICSTime(time.Now().UTC())
	for _, s := range sessions {
		writeEvent(&ics, p, s, stamp)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeEvent(ics *strings.Builder, p *program.Program, s *program.Session, stamp string) {
	ics.WriteString("BEGIN:VEVENT\r\n")

	fmt.Fprintf(ics, "UID:%s@sessionize.com\r\n", s.SourceID)
	fmt.Fprintf(ics, "DTSTAMP:%s\r\n", stamp)
	fmt.Fprintf(ics, "DTSTART:%s\r\n", formatICSTime(s.Start))
	fmt.Fprintf(ics, "DTEND:%s\r\n", formatICSTime(s.End))
	fmt.Fprintf(ics, "SUMMARY:%s\r\n", escapeICS(s.Title))

	description := s.Description
	if names := p.SpeakerNames(s); len(names) > 0 {
		if description != "" {
			description += "\n\n"
		}
		description += "Speakers: " + strings.Join(names, ", ")
	}
	if description != "" {
		fmt.Fprintf(ics, "DESCRIPTION:%s\r\n", escapeICS(description))
	}

	if room := p.RoomName(s); room != "" {
		fmt.Fprintf(ics, "LOCATION:%s\r\n", escapeICS(room))
	}
	if s.Kind != "" {
		fmt.Fprintf(ics, "CATEGORIES:%s\r\n", escapeICS(s.Kind))
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// formatICSTime formats a time as an iCalendar UTC datetime string.
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters according to RFC 5545.
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
