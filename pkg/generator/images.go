package generator

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/matzehuels/slidecraft/pkg/deck"
)

// ImageBase is the stock photo endpoint; the query follows "?".
const ImageBase = "https://source.unsplash.com/1600x900/?"

var (
	deckWords    = regexp.MustCompile(`(?i)presentation|slides|deck`)
	sectionWords = regexp.MustCompile(`(?i)section|chapter`)
)

var contentImages = []struct {
	keywords []string
	query    string
}{
	{[]string{"benefit", "advantage"}, "success,growth"},
	{[]string{"challenge", "problem"}, "solution,strategy"},
	{[]string{"future", "innovation"}, "future,innovation"},
	{[]string{"team", "people"}, "teamwork,collaboration"},
}

// StockImage returns the stock photo URL for a search query. Spaces are
// percent-encoded rather than turned into "+".
func StockImage(query string) string {
	return ImageBase + strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
}

// ImageURL picks an image for a slide from its title. Content slides only
// get one when their title matches a known theme; otherwise it is "".
func ImageURL(s deck.Slide, deckTitle string) string {
	switch s.Type {
	case deck.TypeTitle:
		q := strings.TrimSpace(deckWords.ReplaceAllString(strings.ToLower(deckTitle), ""))
		if q == "" {
			q = "technology,business"
		}
		return StockImage(q)
	case deck.TypeSection:
		q := strings.TrimSpace(sectionWords.ReplaceAllString(strings.ToLower(s.Title), ""))
		if q == "" {
			q = "abstract,minimal"
		}
		return StockImage(q)
	case deck.TypeContent:
		title := strings.ToLower(s.Title)
		for _, ci := range contentImages {
			for _, k := range ci.keywords {
				if strings.Contains(title, k) {
					return StockImage(ci.query)
				}
			}
		}
	}
	return ""
}

// attachImages fills missing image URLs, or clears them all when images
// are off. Slides whose id appears in keep take that image instead.
func attachImages(p *deck.Presentation, enabled bool, keep map[string]string) {
	for i := range p.Slides {
		s := &p.Slides[i]
		if !enabled {
			s.ImageURL = ""
			continue
		}
		if img, ok := keep[s.ID]; ok && img != "" {
			s.ImageURL = img
			continue
		}
		if s.ImageURL == "" {
			s.ImageURL = ImageURL(*s, p.Title)
		}
	}
}
