package geometry

import (
	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/errors"
	"github.com/matzehuels/slidecraft/pkg/layout"
	"github.com/matzehuels/slidecraft/pkg/theme"
)

// Slide is a resolved slide: its selection plus the primitives to draw.
type Slide struct {
	Index      int            `json:"index"`
	ID         string         `json:"id"`
	Type       deck.Type      `json:"type"`
	Variant    layout.Variant `json:"variant"`
	Theme      theme.Theme    `json:"theme"`
	Primitives []Primitive    `json:"primitives"`
}

// Count returns how many primitives have the given role.
func (s Slide) Count(r Role) int {
	n := 0
	for _, p := range s.Primitives {
		if p.Role == r {
			n++
		}
	}
	return n
}

// Texts returns the text values of primitives with the given role, in draw order.
func (s Slide) Texts(r Role) []string {
	var out []string
	for _, p := range s.Primitives {
		if p.Role == r && p.Text != nil {
			out = append(out, p.Text.Value)
		}
	}
	return out
}

// Resolve expands one slide with an explicit theme and variant.
func Resolve(s deck.Slide, th theme.Theme, v layout.Variant) ([]Primitive, error) {
	if !s.Type.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidSlideType, "unknown slide type %q", s.Type)
	}
	fn, ok := recipes[key{s.Type, v}]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidLayout, "no %s layout named %q", s.Type, v)
	}
	return fn(s, th), nil
}

// ResolveAt resolves slide i of p with the per-position theme and variant.
func ResolveAt(p *deck.Presentation, i int) (Slide, error) {
	if i < 0 || i >= p.Len() {
		return Slide{}, errors.New(errors.ErrCodeInvalidInput, "slide index %d out of range [0, %d)", i, p.Len())
	}
	a, err := layout.Select(p.Slides[i].Type, i)
	if err != nil {
		return Slide{}, err
	}
	return resolve(p.Slides[i], i, a.Theme, a.Variant)
}

// ResolveWithTheme resolves slide i of p with a caller-chosen theme. The
// variant still follows the position rule.
func ResolveWithTheme(p *deck.Presentation, i int, th theme.Theme) (Slide, error) {
	if i < 0 || i >= p.Len() {
		return Slide{}, errors.New(errors.ErrCodeInvalidInput, "slide index %d out of range [0, %d)", i, p.Len())
	}
	v, err := layout.VariantFor(p.Slides[i].Type, i)
	if err != nil {
		return Slide{}, err
	}
	return resolve(p.Slides[i], i, th, v)
}

func resolve(s deck.Slide, i int, th theme.Theme, v layout.Variant) (Slide, error) {
	prims, err := Resolve(s, th, v)
	if err != nil {
		return Slide{}, err
	}
	return Slide{Index: i, ID: s.ID, Type: s.Type, Variant: v, Theme: th, Primitives: prims}, nil
}

// Deck resolves every slide with its per-position theme.
func Deck(p *deck.Presentation) ([]Slide, error) {
	out := make([]Slide, 0, p.Len())
	for i := 0; i < p.Len(); i++ {
		s, err := ResolveAt(p, i)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "slide %d", i+1)
		}
		out = append(out, s)
	}
	return out, nil
}

// DeckWithTheme resolves every slide with a single theme.
func DeckWithTheme(p *deck.Presentation, th theme.Theme) ([]Slide, error) {
	out := make([]Slide, 0, p.Len())
	for i := 0; i < p.Len(); i++ {
		s, err := ResolveWithTheme(p, i, th)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "slide %d", i+1)
		}
		out = append(out, s)
	}
	return out, nil
}
