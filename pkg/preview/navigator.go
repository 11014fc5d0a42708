// Package preview holds the screen-side state of a deck: which slide is on
// screen, the frame to draw for it and the thumbnail strip.
//
// A [Navigator] is not safe for concurrent use. The TUI drives it from the
// bubbletea update loop; the HTTP server keeps one per session behind its
// own lock.
package preview

import (
	"fmt"

	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/geometry"
)

// EmptyMessage is shown when there is nothing to preview.
const EmptyMessage = "No Presentation Yet"

// Listener receives the new index whenever the current slide changes.
type Listener func(index int)

// Thumbnail is one entry of the thumbnail strip.
type Thumbnail struct {
	Ordinal int            `json:"ordinal"`
	Badge   string         `json:"badge"`
	Title   string         `json:"title"`
	Current bool           `json:"current"`
	Slide   geometry.Slide `json:"slide"`
}

// Frame is everything a surface needs to draw the current state.
type Frame struct {
	Empty      bool           `json:"empty"`
	Message    string         `json:"message,omitempty"`
	Header     string         `json:"header,omitempty"`
	Counter    string         `json:"counter,omitempty"`
	Index      int            `json:"index"`
	Total      int            `json:"total"`
	Slide      geometry.Slide `json:"slide"`
	Thumbnails []Thumbnail    `json:"thumbnails,omitempty"`
}

// Navigator tracks the current index over a presentation. The index is
// always within [0, count) for a non-empty deck.
type Navigator struct {
	deck      *deck.Presentation
	current   int
	listeners []Listener
}

// New returns a navigator positioned on the first slide.
func New(p *deck.Presentation) *Navigator {
	return &Navigator{deck: p}
}

// OnSelect registers a listener for index changes.
func (n *Navigator) OnSelect(l Listener) {
	n.listeners = append(n.listeners, l)
}

// Presentation returns the deck being previewed.
func (n *Navigator) Presentation() *deck.Presentation { return n.deck }

// Index returns the current slide index.
func (n *Navigator) Index() int { return n.current }

// Len returns the number of slides.
func (n *Navigator) Len() int { return n.deck.Len() }

// Prev moves one slide back. It is a no-op on the first slide.
func (n *Navigator) Prev() { n.Select(n.current - 1) }

// Next moves one slide forward. It is a no-op on the last slide.
func (n *Navigator) Next() { n.Select(n.current + 1) }

// First jumps to the first slide.
func (n *Navigator) First() { n.Select(0) }

// Last jumps to the last slide.
func (n *Navigator) Last() { n.Select(n.Len() - 1) }

// Select jumps to slide i, clamped into range.
func (n *Navigator) Select(i int) {
	n.set(n.clamp(i))
}

// SetPresentation swaps in new data, keeping the index when it still fits.
func (n *Navigator) SetPresentation(p *deck.Presentation) {
	n.deck = p
	n.set(n.clamp(n.current))
}

func (n *Navigator) clamp(i int) int {
	last := n.Len() - 1
	if last < 0 {
		return 0
	}
	return max(0, min(i, last))
}

func (n *Navigator) set(i int) {
	if i == n.current {
		return
	}
	n.current = i
	for _, l := range n.listeners {
		l(i)
	}
}

// Frame resolves the current slide and, for decks with more than one slide,
// the thumbnails.
func (n *Navigator) Frame() (Frame, error) {
	total := n.Len()
	if total == 0 {
		return Frame{Empty: true, Message: EmptyMessage}, nil
	}
	slides, err := geometry.Deck(n.deck)
	if err != nil {
		return Frame{}, err
	}
	f := Frame{
		Index:   n.current,
		Total:   total,
		Header:  fmt.Sprintf("%d slides • Slide %d", total, n.current+1),
		Counter: fmt.Sprintf("%d / %d", n.current+1, total),
		Slide:   slides[n.current],
	}
	if total > 1 {
		f.Thumbnails = make([]Thumbnail, total)
		for i, s := range slides {
			f.Thumbnails[i] = Thumbnail{
				Ordinal: i + 1,
				Badge:   s.Type.Badge(),
				Title:   n.deck.Slides[i].Title,
				Current: i == n.current,
				Slide:   s,
			}
		}
	}
	return f, nil
}
