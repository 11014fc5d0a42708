package sink

import (
	"encoding/json"

	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/geometry"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	deck    *deck.Presentation
	compact bool
	theme   string
}

// WithJSONDeck embeds the source presentation next to the resolved slides.
func WithJSONDeck(p *deck.Presentation) JSONOption { return func(r *jsonRenderer) { r.deck = p } }

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

// WithJSONTheme records the single theme used for the whole deck, when there is one.
func WithJSONTheme(name string) JSONOption { return func(r *jsonRenderer) { r.theme = name } }

type jsonOutput struct {
	Width        float64            `json:"width"`
	Height       float64            `json:"height"`
	Theme        string             `json:"theme,omitempty"`
	Presentation *deck.Presentation `json:"presentation,omitempty"`
	Slides       []geometry.Slide   `json:"slides"`
}

// RenderJSON serializes resolved slides on the unit canvas.
func RenderJSON(slides []geometry.Slide, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if slides == nil {
		slides = []geometry.Slide{}
	}
	out := jsonOutput{
		Width:        geometry.Width,
		Height:       geometry.Height,
		Theme:        r.theme,
		Presentation: r.deck,
		Slides:       slides,
	}
	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}
