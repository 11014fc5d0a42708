// Package pipeline runs the load → resolve → render pipeline for decks.
//
// The CLI and the HTTP server both go through a [Runner] so that format
// selection, theming and artifact caching behave the same everywhere.
//
// # Stages
//
//  1. Load: parse and validate the deck JSON ([Load], [Parse])
//  2. Resolve: turn every slide into positioned primitives ([Resolve])
//  3. Render: produce artifacts in the requested formats
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	p, err := pipeline.Load("deck.json")
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, p, pipeline.Options{
//	    Formats: []string{"svg", "pdf"},
//	})
//	for _, a := range result.Artifacts {
//	    os.WriteFile(a.Name, a.Data, 0o644)
//	}
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidecraft/pkg/cache"
	"github.com/matzehuels/slidecraft/pkg/errors"
	"github.com/matzehuels/slidecraft/pkg/theme"
)

// Format constants for output formats.
const (
	FormatSVG        = "svg"
	FormatPNG        = "png"
	FormatPDF        = "pdf"
	FormatJSON       = "json"
	FormatMarkdown   = "md"
	FormatHTML       = "html"
	FormatOutline    = "outline"
	FormatOutlineDOT = "dot"
)

// Formats lists every supported format in a stable order.
var Formats = []string{
	FormatSVG, FormatPNG, FormatPDF, FormatJSON,
	FormatMarkdown, FormatHTML, FormatOutline, FormatOutlineDOT,
}

// perSlide formats produce one artifact per slide.
var perSlide = map[string]bool{FormatSVG: true, FormatPNG: true}

// DefaultScale is the default raster and SVG scale factor.
const DefaultScale = 1.0

// DeckArtifact is the Slide value of artifacts that cover the whole deck.
const DeckArtifact = -1

// Options configures a pipeline run. It supports JSON for API requests.
type Options struct {
	Formats []string `json:"formats,omitempty"`
	// Theme fixes one theme for the whole deck. Empty applies the
	// position rule per slide.
	Theme string `json:"theme,omitempty"`
	// Only restricts per-slide formats to these zero-based indexes.
	Only     []int   `json:"only,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Notes    bool    `json:"notes,omitempty"`
	Images   bool    `json:"images,omitempty"`
	Counter  bool    `json:"counter,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
	Refresh  bool    `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Artifact is one rendered output.
type Artifact struct {
	// Name is a suggested file name, for example "slide-03.svg".
	Name   string `json:"name"`
	Format string `json:"format"`
	// Slide is the zero-based slide index, or -1 for deck artifacts.
	Slide int    `json:"slide"`
	Data  []byte `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	DeckHash  string
	Artifacts []Artifact
	Stats     Stats
	CacheInfo CacheInfo
}

// Get returns the first artifact of a format.
func (r *Result) Get(format string) ([]byte, bool) {
	for _, a := range r.Artifacts {
		if a.Format == format {
			return a.Data, true
		}
	}
	return nil, false
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Slides      int
	ResolveTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits during rendering.
type CacheInfo struct {
	Hits   int
	Misses int
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma separated list, trimming and lowercasing each
// entry and dropping duplicates.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// ValidateAndSetDefaults checks options and fills defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	for _, i := range o.Only {
		if i < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "slide index %d out of range", i)
		}
	}
	if o.Theme != "" {
		if _, ok := theme.ByName(o.Theme); !ok {
			return errors.New(errors.ErrCodeInvalidTheme, "unknown theme %q (have %s)", o.Theme, strings.Join(theme.Names(), ", "))
		}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return nil
}

// ArtifactKeyOpts returns cache key options for one artifact.
func (o *Options) ArtifactKeyOpts(format string, slide int) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format + o.variantSuffix(format),
		Theme:  o.Theme,
		Slide:  slide,
		Scale:  o.Scale,
		Notes:  o.Notes,
	}
}

// variantSuffix folds the flags that only some formats honor into the key.
func (o *Options) variantSuffix(format string) string {
	var b strings.Builder
	switch format {
	case FormatMarkdown, FormatHTML:
		if o.Images {
			b.WriteString("+images")
		}
	case FormatOutline, FormatOutlineDOT:
		if o.Detailed {
			b.WriteString("+detailed")
		}
	case FormatSVG, FormatPDF:
		if o.Counter {
			b.WriteString("+counter")
		}
	}
	return b.String()
}

func artifactName(format string, slide int) string {
	switch format {
	case FormatOutline:
		return "outline.svg"
	case FormatOutlineDOT:
		return "outline.dot"
	case FormatMarkdown:
		return "handout.md"
	case FormatHTML:
		return "handout.html"
	}
	if slide >= 0 {
		return fmt.Sprintf("slide-%02d.%s", slide+1, format)
	}
	return "deck." + format
}
