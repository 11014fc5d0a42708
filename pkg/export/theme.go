package export

import (
	"math/rand/v2"
	"strings"

	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/errors"
	"github.com/matzehuels/slidecraft/pkg/theme"
)

// ThemePicker chooses the one theme applied to every exported slide.
type ThemePicker interface {
	Pick(p *deck.Presentation) (theme.Theme, error)
}

// PositionPicker applies the position rule to the deck as a whole: the
// theme at position 0, the same one the first preview slide uses.
type PositionPicker struct{}

// Pick implements [ThemePicker].
func (PositionPicker) Pick(*deck.Presentation) (theme.Theme, error) { return theme.At(0), nil }

// RandomPicker draws one theme uniformly per export.
type RandomPicker struct {
	// Rand is the source; nil uses the global generator.
	Rand *rand.Rand
}

// Pick implements [ThemePicker].
func (r RandomPicker) Pick(*deck.Presentation) (theme.Theme, error) {
	if r.Rand == nil {
		return theme.At(rand.IntN(theme.Count)), nil
	}
	return theme.At(r.Rand.IntN(theme.Count)), nil
}

// FixedPicker uses a named theme. An empty Name falls back to the deck's own
// theme field and then to [PositionPicker].
type FixedPicker struct {
	Name string
}

// Pick implements [ThemePicker].
func (f FixedPicker) Pick(p *deck.Presentation) (theme.Theme, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" && p != nil {
		name = strings.TrimSpace(p.Theme)
	}
	if name == "" {
		return PositionPicker{}.Pick(p)
	}
	th, ok := theme.ByName(name)
	if !ok {
		return theme.Theme{}, errors.New(errors.ErrCodeInvalidTheme, "unknown theme %q (have %s)", name, strings.Join(theme.Names(), ", "))
	}
	return th, nil
}
