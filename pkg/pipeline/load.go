package pipeline

import (
	"encoding/json"
	"time"

	"github.com/matzehuels/slidecraft/pkg/cache"
	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/errors"
	"github.com/matzehuels/slidecraft/pkg/geometry"
	"github.com/matzehuels/slidecraft/pkg/theme"
)

// Load reads and validates a deck file.
func Load(path string) (*deck.Presentation, error) {
	p, err := deck.Load(path)
	if err != nil {
		return nil, err
	}
	if err := deck.Validate(p); err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return p, nil
}

// Parse decodes and validates deck JSON.
func Parse(data []byte) (*deck.Presentation, error) {
	p, err := deck.Parse(data)
	if err != nil {
		return nil, err
	}
	if err := deck.Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeckHash is the content hash of a deck used in cache keys. Timestamps
// do not contribute, so re-saving an unchanged deck keeps its artifacts.
func DeckHash(p *deck.Presentation) string {
	c := p.Clone()
	c.CreatedAt, c.UpdatedAt = time.Time{}, time.Time{}
	data, _ := json.Marshal(c)
	return cache.Hash(data)
}

// Resolve computes the geometry of every slide, using the position rule or
// the named theme for all slides.
func Resolve(p *deck.Presentation, themeName string) ([]geometry.Slide, error) {
	if themeName == "" {
		return geometry.Deck(p)
	}
	th, ok := theme.ByName(themeName)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidTheme, "unknown theme %q", themeName)
	}
	return geometry.DeckWithTheme(p, th)
}
