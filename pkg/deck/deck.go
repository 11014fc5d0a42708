package deck

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/slidecraft/pkg/errors"
)

// Type is the semantic kind of a slide.
type Type string

const (
	TypeTitle   Type = "title"
	TypeContent Type = "content"
	TypeSection Type = "section"
)

// Types lists the known slide types in declaration order.
var Types = []Type{TypeTitle, TypeContent, TypeSection}

// Valid reports whether t is one of the known slide types.
func (t Type) Valid() bool {
	switch t {
	case TypeTitle, TypeContent, TypeSection:
		return true
	}
	return false
}

// Badge returns the capitalized label shown on thumbnails.
func (t Type) Badge() string {
	switch t {
	case TypeTitle:
		return "Title"
	case TypeSection:
		return "Section"
	default:
		return "Content"
	}
}

// Slide is one visual unit of a presentation.
type Slide struct {
	ID       string   `json:"id"`
	Type     Type     `json:"type"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Content  []string `json:"content,omitempty"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}

// HasImage reports whether the slide references an image.
func (s Slide) HasImage() bool { return strings.TrimSpace(s.ImageURL) != "" }

// Presentation is an ordered sequence of slides plus metadata.
type Presentation struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slides      []Slide   `json:"slides"`
	Theme       string    `json:"theme,omitempty"`
	Author      string    `json:"author,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// New builds a presentation, assigning ids to the presentation and to any
// slide that lacks one. The slice is copied.
func New(title string, slides []Slide, now time.Time) *Presentation {
	p := &Presentation{
		ID:        uuid.NewString(),
		Title:     title,
		Slides:    make([]Slide, len(slides)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	copy(p.Slides, slides)
	p.EnsureIDs()
	return p
}

// EnsureIDs assigns a uuid to the presentation and to every slide without an id.
func (p *Presentation) EnsureIDs() {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	for i := range p.Slides {
		if p.Slides[i].ID == "" {
			p.Slides[i].ID = uuid.NewString()
		}
	}
}

// Len returns the number of slides. A nil presentation has none.
func (p *Presentation) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Slides)
}

// Clone returns a deep copy so callers can derive an edited deck without
// touching the original.
func (p *Presentation) Clone() *Presentation {
	if p == nil {
		return nil
	}
	c := *p
	c.Slides = make([]Slide, len(p.Slides))
	for i, s := range p.Slides {
		s.Content = append([]string(nil), s.Content...)
		c.Slides[i] = s
	}
	return &c
}

// Count returns how many slides have the given type.
func (p *Presentation) Count(t Type) int {
	n := 0
	for _, s := range p.Slides {
		if s.Type == t {
			n++
		}
	}
	return n
}

// Parse decodes a presentation from JSON. Both a bare presentation object and
// a {"presentation": {...}} envelope are accepted.
func Parse(data []byte) (*Presentation, error) {
	var env struct {
		Presentation *Presentation `json:"presentation"`
	}
	if err := json.Unmarshal(data, &env); err == nil && env.Presentation != nil {
		return env.Presentation, nil
	}
	var p Presentation
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPresentation, err, "decode presentation")
	}
	return &p, nil
}

// Load reads and parses a presentation file.
func Load(path string) (*Presentation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "presentation %s", path)
		}
		return nil, fmt.Errorf("read presentation: %w", err)
	}
	return Parse(data)
}

// Save writes the presentation as indented JSON.
func Save(path string, p *Presentation) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal presentation: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
