package deck

import (
	"strings"

	"github.com/matzehuels/slidecraft/pkg/errors"
)

// Slide count bounds enforced by ValidateStructure.
const (
	MinSlides = 3
	MaxSlides = 15
)

// Bullet length bounds, in words.
const (
	MinBulletWords = 3
	MaxBulletWords = 15
)

// Validate checks the invariants the layout engine relies on.
// Slide count is not bounded here; short and long decks still render.
func Validate(p *Presentation) error {
	if p == nil {
		return errors.New(errors.ErrCodeInvalidPresentation, "presentation is nil")
	}
	if strings.TrimSpace(p.Title) == "" {
		return errors.New(errors.ErrCodeInvalidPresentation, "presentation title cannot be empty")
	}
	if len(p.Slides) == 0 {
		return errors.New(errors.ErrCodeInvalidPresentation, "presentation has no slides")
	}
	seen := make(map[string]int, len(p.Slides))
	for i, s := range p.Slides {
		if err := ValidateSlide(s); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "slide %d", i+1)
		}
		if s.ID == "" {
			continue
		}
		if j, dup := seen[s.ID]; dup {
			return errors.New(errors.ErrCodeInvalidPresentation, "slides %d and %d share id %q", j+1, i+1, s.ID)
		}
		seen[s.ID] = i
	}
	return nil
}

// ValidateSlide checks a single slide's type, title and image reference.
func ValidateSlide(s Slide) error {
	if !s.Type.Valid() {
		return errors.New(errors.ErrCodeInvalidSlideType, "unknown slide type %q", s.Type)
	}
	if strings.TrimSpace(s.Title) == "" {
		return errors.New(errors.ErrCodeInvalidPresentation, "slide title cannot be empty")
	}
	if s.HasImage() {
		if err := errors.ValidateURL(s.ImageURL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPresentation, err, "image url")
		}
	}
	return nil
}

// ValidateStructure applies the product rules for generated decks: 3 to 15
// slides, a title slide first, and at least one content slide.
func ValidateStructure(p *Presentation) error {
	if err := Validate(p); err != nil {
		return err
	}
	if n := len(p.Slides); n < MinSlides || n > MaxSlides {
		return errors.New(errors.ErrCodeInvalidPresentation, "presentation must have %d-%d slides, got %d", MinSlides, MaxSlides, n)
	}
	if p.Slides[0].Type != TypeTitle {
		return errors.New(errors.ErrCodeInvalidPresentation, "first slide must be a title slide")
	}
	if p.Count(TypeContent) == 0 {
		return errors.New(errors.ErrCodeInvalidPresentation, "presentation must have at least one content slide")
	}
	return nil
}

// ValidateBullet checks that a bullet point is between 3 and 15 words.
func ValidateBullet(text string) error {
	n := len(strings.Fields(text))
	if n < MinBulletWords || n > MaxBulletWords {
		return errors.New(errors.ErrCodeInvalidInput, "bullet must have %d-%d words, got %d", MinBulletWords, MaxBulletWords, n)
	}
	return nil
}
