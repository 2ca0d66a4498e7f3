package sessionize

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Structural selectors for the Sessionize "view" pages. Attribute order and
// whitespace vary between renders; class names do not.
const (
	sessionListSelector = "ul.sz-sessions--list"
	sessionSelector     = "li.sz-session--full"
	speakerListSelector = "ul.sz-speakers--list"
	speakerSelector     = "li.sz-speaker"
)

// ParseError indicates that the expected top-level container is absent from
// the markup, i.e. the source page structure changed. It is fatal for the
// whole page, unlike per-record gaps which surface as empty record fields.
type ParseError struct {
	Container string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("markup missing expected container %q", e.Container)
}

// SessionRecord is one session entry as extracted from the program page.
// All fields are raw, unvalidated strings; empty means absent in the source.
type SessionRecord struct {
	ID          string // page-assigned session id
	Title       string
	Description string
	TimeText    string // raw data-sztz attribute, or visible time text
	RoomID      string // page-assigned room id
	RoomName    string
	SpeakerText string // speaker names joined with ", "
}

// SpeakerRecord is one speaker entry as extracted from the speakers page.
type SpeakerRecord struct {
	ID        string
	Name      string
	Tagline   string
	Bio       string
	AvatarURL string
	Links     map[string]string // link label (or URL) -> URL
}

// ParseProgram extracts session records from a rendered program page.
// Records are returned in document order.
func ParseProgram(r io.Reader) ([]SessionRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	list := doc.Find(sessionListSelector)
	if list.Length() == 0 {
		return nil, &ParseError{Container: sessionListSelector}
	}

	records := make([]SessionRecord, 0)
	list.Find(sessionSelector).Each(func(i int, sel *goquery.Selection) {
		var rec SessionRecord

		rec.ID, _ = sel.Attr("data-sessionid")
		rec.Title = strings.TrimSpace(sel.Find("h3").First().Text())
		rec.Description = strings.TrimSpace(sel.Find("p.sz-session__description").First().Text())

		room := sel.Find("div.sz-session__room").First()
		rec.RoomName = strings.TrimSpace(room.Text())
		rec.RoomID, _ = room.Attr("data-roomid")

		names := make([]string, 0)
		sel.Find("ul.sz-session__speakers li").Each(func(_ int, sp *goquery.Selection) {
			if name := strings.TrimSpace(sp.Text()); name != "" {
				names = append(names, name)
			}
		})
		rec.SpeakerText = strings.Join(names, ", ")

		timeSel := sel.Find("div.sz-session__time").First()
		if attr, ok := timeSel.Attr("data-sztz"); ok && strings.TrimSpace(attr) != "" {
			rec.TimeText = strings.TrimSpace(attr)
		} else {
			rec.TimeText = strings.TrimSpace(timeSel.Text())
		}

		records = append(records, rec)
	})

	return records, nil
}

// ParseSpeakers extracts speaker records from a rendered speakers page.
func ParseSpeakers(r io.Reader) ([]SpeakerRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	list := doc.Find(speakerListSelector)
	if list.Length() == 0 {
		return nil, &ParseError{Container: speakerListSelector}
	}

	records := make([]SpeakerRecord, 0)
	list.Find(speakerSelector).Each(func(i int, sel *goquery.Selection) {
		var rec SpeakerRecord

		rec.ID, _ = sel.Attr("data-speakerid")
		rec.Name = strings.TrimSpace(sel.Find("h3").First().Text())
		rec.Tagline = strings.TrimSpace(sel.Find("h4.sz-speaker__tagline").First().Text())
		rec.Bio = strings.TrimSpace(sel.Find("p.sz-speaker__bio").First().Text())

		if src, ok := sel.Find("img.sz-speaker__photo").First().Attr("src"); ok {
			rec.AvatarURL = strings.TrimSpace(src)
		}

		sel.Find("ul.sz-speaker__links li a").Each(func(_ int, a *goquery.Selection) {
			href, ok := a.Attr("href")
			if !ok || strings.TrimSpace(href) == "" {
				return
			}
			label := strings.TrimSpace(a.AttrOr("title", ""))
			if label == "" {
				label = strings.TrimSpace(a.Text())
			}
			if label == "" {
				label = href
			}
			if rec.Links == nil {
				rec.Links = make(map[string]string)
			}
			rec.Links[label] = strings.TrimSpace(href)
		})

		records = append(records, rec)
	})

	return records, nil
}
