package sessionize

import (
	"fmt"
	"strings"
)

// DefaultBaseURL is the Sessionize embed API root. The "view" endpoints serve
// server-rendered HTML, which is what the parser consumes.
const DefaultBaseURL = "https://sessionize.com/api/v2"

// ProgramURL returns the URL of the rendered sessions page for an event ID.
func ProgramURL(baseURL, eventID string) string {
	return fmt.Sprintf("%s/%s/view/Sessions", strings.TrimRight(baseURL, "/"), eventID)
}

// SpeakersURL returns the URL of the rendered speakers page for an event ID.
func SpeakersURL(baseURL, eventID string) string {
	return fmt.Sprintf("%s/%s/view/Speakers", strings.TrimRight(baseURL, "/"), eventID)
}
