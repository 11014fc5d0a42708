// Package layout selects the theme and layout variant for a slide from its
// position in the deck.
//
// Selection depends only on the slide type and its zero-based position, never
// on content or randomness, so the preview and the exported document agree on
// every slide's arrangement. Both renderers call [VariantFor].
package layout

import (
	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/errors"
	"github.com/matzehuels/slidecraft/pkg/theme"
)

// Variant names a hand-authored arrangement recipe for one slide type.
type Variant string

// Title slide variants.
const (
	Centered    Variant = "centered"
	LeftAligned Variant = "leftAligned"
	SplitScreen Variant = "splitScreen"
	Minimalist  Variant = "minimalist"
)

// Content slide variants.
const (
	Classic   Variant = "classic"
	TwoColumn Variant = "twoColumn"
	Featured  Variant = "featured"
	Timeline  Variant = "timeline"
)

// Section slide variants.
const (
	Bold     Variant = "bold"
	Diagonal Variant = "diagonal"
	Gradient Variant = "gradient"
	Minimal  Variant = "minimal"
)

var (
	titleVariants   = [...]Variant{Centered, LeftAligned, SplitScreen, Minimalist}
	contentVariants = [...]Variant{Classic, TwoColumn, Featured, Timeline}
	sectionVariants = [...]Variant{Bold, Diagonal, Gradient, Minimal}
)

// Variants returns the ordered variant set for a slide type.
// The returned slice is a copy.
func Variants(t deck.Type) ([]Variant, error) {
	switch t {
	case deck.TypeTitle:
		return append([]Variant(nil), titleVariants[:]...), nil
	case deck.TypeContent:
		return append([]Variant(nil), contentVariants[:]...), nil
	case deck.TypeSection:
		return append([]Variant(nil), sectionVariants[:]...), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidSlideType, "unknown slide type %q", t)
}

// Valid reports whether v belongs to the variant set of t.
func Valid(t deck.Type, v Variant) bool {
	vs, err := Variants(t)
	if err != nil {
		return false
	}
	for _, c := range vs {
		if c == v {
			return true
		}
	}
	return false
}

// VariantFor returns the variant for the slide of type t at position i.
func VariantFor(t deck.Type, i int) (Variant, error) {
	vs, err := Variants(t)
	if err != nil {
		return "", err
	}
	if i < 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "negative slide position %d", i)
	}
	return vs[i%len(vs)], nil
}

// Assignment is the selection result for one slide position.
type Assignment struct {
	Index   int         `json:"index"`
	Theme   theme.Theme `json:"theme"`
	Variant Variant     `json:"variant"`
}

// Select returns the per-position theme and variant for a slide.
func Select(t deck.Type, i int) (Assignment, error) {
	v, err := VariantFor(t, i)
	if err != nil {
		return Assignment{}, err
	}
	return Assignment{Index: i, Theme: theme.At(i), Variant: v}, nil
}

// Plan returns the assignment of every slide in p, failing on the first
// unknown slide type.
func Plan(p *deck.Presentation) ([]Assignment, error) {
	out := make([]Assignment, 0, p.Len())
	for i := 0; i < p.Len(); i++ {
		a, err := Select(p.Slides[i].Type, i)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "slide %d", i+1)
		}
		out = append(out, a)
	}
	return out, nil
}
