// Package generator turns prompts into presentations.
//
// [Client] talks to an OpenAI-compatible chat completions endpoint and
// [Fallback] builds a template deck locally. [Resilient] combines the two:
// it answers from the remote model and falls back to the template when the
// remote reports an exhausted quota.
//
//	g := generator.NewResilient(
//	    generator.NewClient(generator.ClientConfig{Endpoint: url, APIKey: key}),
//	    generator.Fallback{},
//	    logger,
//	)
//	p, err := g.Generate(ctx, generator.GenerateRequest{Prompt: "A talk about bees"})
package generator

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/errors"
)

// Request limits.
const (
	MaxPromptLength   = 2000
	DefaultSlideCount = 8
)

// Style is the tone requested for a deck.
type Style string

const (
	StyleProfessional Style = "professional"
	StyleCreative     Style = "creative"
	StyleMinimal      Style = "minimal"
	StyleAcademic     Style = "academic"
)

// Styles lists the accepted styles.
var Styles = []Style{StyleProfessional, StyleCreative, StyleMinimal, StyleAcademic}

// Operation is the kind of edit an update performs.
type Operation string

const (
	OpEdit       Operation = "edit"
	OpAdd        Operation = "add"
	OpRemove     Operation = "remove"
	OpReorder    Operation = "reorder"
	OpRegenerate Operation = "regenerate"
)

// Operations lists the accepted operations.
var Operations = []Operation{OpEdit, OpAdd, OpRemove, OpReorder, OpRegenerate}

// GenerateRequest asks for a new presentation.
type GenerateRequest struct {
	Prompt        string `json:"prompt"`
	SlideCount    int    `json:"slideCount,omitempty"`
	Style         Style  `json:"style,omitempty"`
	IncludeImages *bool  `json:"includeImages,omitempty"`
}

// Images reports whether images were requested, defaulting to true.
func (r GenerateRequest) Images() bool { return r.IncludeImages == nil || *r.IncludeImages }

// SetDefaults fills the slide count and style.
func (r *GenerateRequest) SetDefaults() {
	if r.SlideCount == 0 {
		r.SlideCount = DefaultSlideCount
	}
	if r.Style == "" {
		r.Style = StyleProfessional
	}
}

// Validate applies defaults and checks the request bounds.
func (r *GenerateRequest) Validate() error {
	r.SetDefaults()
	if err := validatePrompt(r.Prompt); err != nil {
		return err
	}
	if r.SlideCount < deck.MinSlides || r.SlideCount > deck.MaxSlides {
		return errors.New(errors.ErrCodeInvalidInput, "slide count must be between %d and %d, got %d", deck.MinSlides, deck.MaxSlides, r.SlideCount)
	}
	if !slices.Contains(Styles, r.Style) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown style %q", r.Style)
	}
	return nil
}

// UpdateRequest asks for changes to an existing presentation.
type UpdateRequest struct {
	Prompt     string    `json:"prompt"`
	SlideIndex *int      `json:"slideIndex,omitempty"`
	Operation  Operation `json:"operation,omitempty"`
}

// Validate checks the request against the deck it will modify.
func (r *UpdateRequest) Validate(current *deck.Presentation) error {
	if r.Operation == "" {
		r.Operation = OpEdit
	}
	if err := validatePrompt(r.Prompt); err != nil {
		return err
	}
	if !slices.Contains(Operations, r.Operation) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown operation %q", r.Operation)
	}
	if r.SlideIndex != nil && (*r.SlideIndex < 0 || *r.SlideIndex >= current.Len()) {
		return errors.New(errors.ErrCodeInvalidInput, "slide index %d out of range [0, %d)", *r.SlideIndex, current.Len())
	}
	return nil
}

func validatePrompt(p string) error {
	if strings.TrimSpace(p) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "prompt cannot be empty")
	}
	if utf8.RuneCountInString(p) > MaxPromptLength {
		return errors.New(errors.ErrCodeInvalidInput, "prompt too long (max %d characters)", MaxPromptLength)
	}
	return nil
}

// Generator creates and edits presentations.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*deck.Presentation, error)
	// Update returns the full edited deck. current is never modified.
	Update(ctx context.Context, req UpdateRequest, current *deck.Presentation) (*deck.Presentation, error)
}

// Regenerate rewrites slide i of p with g and returns the new slide.
func Regenerate(ctx context.Context, g Generator, p *deck.Presentation, i int) (deck.Slide, error) {
	if i < 0 || i >= p.Len() {
		return deck.Slide{}, errors.New(errors.ErrCodeInvalidInput, "slide index %d out of range [0, %d)", i, p.Len())
	}
	updated, err := g.Update(ctx, UpdateRequest{
		Prompt:     regeneratePrompt(p, i),
		SlideIndex: &i,
		Operation:  OpRegenerate,
	}, p)
	if err != nil {
		return deck.Slide{}, err
	}
	if i >= updated.Len() {
		return deck.Slide{}, errors.New(errors.ErrCodeGenerationFailed, "updated deck has no slide %d", i+1)
	}
	return updated.Slides[i], nil
}
