package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"confprog/internal/program"
)

// Format selects how list commands render their results.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatTable:
		return FormatTable, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected table, csv, or json)", s)
	}
}

// sessionView is a session with its speaker and room references resolved,
// ready for serialization.
type sessionView struct {
	SourceID    string   `json:"source_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Kind        string   `json:"kind"`
	Track       string   `json:"track,omitempty"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Room        string   `json:"room,omitempty"`
	Speakers    []string `json:"speakers"`
}

func newSessionView(p *program.Program, s *program.Session) sessionView {
	return sessionView{
		SourceID:    s.SourceID,
		Title:       s.Title,
		Description: s.Description,
		Kind:        s.Kind,
		Track:       s.Track,
		Start:       s.Start.Format(time.RFC3339),
		End:         s.End.Format(time.RFC3339),
		Room:        p.RoomName(s),
		Speakers:    p.SpeakerNames(s),
	}
}

func WriteSessions(w io.Writer, p *program.Program, sessions []*program.Session, format Format) error {
	switch format {
	case FormatJSON:
		return writeSessionsJSON(w, p, sessions)
	case FormatCSV:
		return writeSessionsCSV(w, p, sessions)
	default:
		return writeSessionsTable(w, p, sessions)
	}
}

func writeSessionsTable(w io.Writer, p *program.Program, sessions []*program.Session) error {
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.Kind,
			s.Start.Format("Mon Jan 2"),
			s.Start.Format("15:04"),
			s.End.Format("15:04"),
			p.RoomName(s),
			s.Title,
			strings.Join(p.SpeakerNames(s), ", "),
		})
	}

	out := renderTable([]string{"Kind", "Date", "Start", "End", "Room", "Title", "Speakers"}, rows)
	if _, err := fmt.Fprintln(w, out); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d sessions\n", len(sessions))
	return err
}

func writeSessionsCSV(w io.Writer, p *program.Program, sessions []*program.Session) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write([]string{"Kind", "Date", "Start", "End", "Room", "Title", "Speakers"}); err != nil {
		return err
	}
	for _, s := range sessions {
		record := []string{
			s.Kind,
			s.Start.Format("2006-01-02"),
			s.Start.Format("15:04"),
			s.End.Format("15:04"),
			p.RoomName(s),
			s.Title,
			strings.Join(p.SpeakerNames(s), ", "),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeSessionsJSON(w io.Writer, p *program.Program, sessions []*program.Session) error {
	payload := struct {
		GeneratedAt  time.Time     `json:"generated_at"`
		Timezone     string        `json:"timezone"`
		SessionCount int           `json:"session_count"`
		Sessions     []sessionView `json:"sessions"`
	}{
		GeneratedAt:  p.GeneratedAt,
		Timezone:     p.Timezone,
		SessionCount: len(sessions),
		Sessions:     make([]sessionView, 0, len(sessions)),
	}
	for _, s := range sessions {
		payload.Sessions = append(payload.Sessions, newSessionView(p, s))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func WriteSpeakers(w io.Writer, p *program.Program, format Format) error {
	speakers := make([]*program.Speaker, 0, len(p.Speakers))
	for _, sp := range p.Speakers {
		speakers = append(speakers, sp)
	}
	sort.Slice(speakers, func(i, j int) bool { return speakers[i].Name < speakers[j].Name })

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(speakers)
	case FormatCSV:
		cw := csv.NewWriter(w)
		cw.Comma = ';'
		if err := cw.Write([]string{"Name", "Tagline", "Sessions"}); err != nil {
			return err
		}
		for _, sp := range speakers {
			if err := cw.Write([]string{sp.Name, sp.Tagline, fmt.Sprintf("%d", speakerSessionCount(p, sp))}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		rows := make([][]string, 0, len(speakers))
		for _, sp := range speakers {
			rows = append(rows, []string{
				sp.Name,
				sp.Tagline,
				fmt.Sprintf("%d", speakerSessionCount(p, sp)),
			})
		}
		out := renderTable([]string{"Name", "Tagline", "Sessions"}, rows)
		if _, err := fmt.Fprintln(w, out); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "%d speakers\n", len(speakers))
		return err
	}
}

func speakerSessionCount(p *program.Program, sp *program.Speaker) int {
	count := 0
	for _, s := range p.Sessions {
		for _, key := range s.Speakers {
			if key == sp.Key {
				count++
				break
			}
		}
	}
	return count
}
