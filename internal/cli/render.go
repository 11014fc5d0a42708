package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slidecraft/pkg/errors"
	"github.com/matzehuels/slidecraft/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output directory
	formats  string  // comma separated formats
	theme    string  // one theme for every slide instead of the position rule
	scale    float64 // SVG and PNG scale factor
	only     string  // comma separated 1-based slide numbers
	notes    bool    // include speaker notes in handouts
	images   bool    // embed slide images in handouts
	counter  bool    // print "i / n" on SVG and PDF slides
	detailed bool    // show bullets in the outline
	noCache  bool    // disable the artifact cache
	refresh  bool    // re-render even when cached
}

// renderCommand creates the render command for producing slide artifacts.
//
// Formats:
//   - svg, png: one file per slide
//   - pdf: all slides
//   - json: resolved geometry
//   - md, html: handouts
//   - outline, dot: deck structure diagram
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{formats: pipeline.FormatSVG, scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render <deck.json>",
		Short: "Render a deck to SVG, PNG, PDF and handouts",
		Long: `Render a deck description to one or more formats.

Each slide takes its theme from its position in the deck unless --theme
selects one for all of them. Results are cached; use --refresh to
re-render or --no-cache to bypass the cache entirely.`,
		Example: `  # SVG per slide into ./out
  slidecraft render deck.json -o out

  # PDF and a Markdown handout with notes
  slidecraft render deck.json -f pdf,md --notes

  # Only slides 1 and 3 as PNG at double scale
  slidecraft render deck.json -f png --only 1,3 --scale 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default: next to the deck)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", opts.formats, "output formats: "+strings.Join(pipeline.Formats, ", "))
	cmd.Flags().StringVar(&opts.theme, "theme", "", "apply one theme to all slides")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "scale factor for SVG and PNG")
	cmd.Flags().StringVar(&opts.only, "only", "", "render only these slide numbers (e.g. 1,3)")
	cmd.Flags().BoolVar(&opts.notes, "notes", false, "include speaker notes in handouts")
	cmd.Flags().BoolVar(&opts.images, "images", false, "embed slide images in handouts")
	cmd.Flags().BoolVar(&opts.counter, "counter", false, "print the slide counter on SVG and PDF output")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "list bullets in the outline")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	only, err := parseOnly(opts.only)
	if err != nil {
		return err
	}
	popts := pipeline.Options{
		Formats:  pipeline.ParseFormats(opts.formats),
		Theme:    opts.theme,
		Only:     only,
		Scale:    opts.scale,
		Notes:    opts.notes,
		Images:   opts.images,
		Counter:  opts.counter,
		Detailed: opts.detailed,
		Refresh:  opts.refresh,
		Logger:   c.Logger,
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	p, err := pipeline.Load(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	start := time.Now()
	result, err := runner.Execute(ctx, p, popts)
	if err != nil {
		return err
	}

	dir := opts.output
	if dir == "" {
		dir = strings.TrimSuffix(input, filepath.Ext(input))
	}
	paths, err := writeArtifacts(dir, result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s in %s", StyleValue.Render(p.Title), elapsed(time.Since(start)))
	for _, path := range paths {
		printFile(path)
	}
	printStats(result.Stats.Slides, len(result.Artifacts), result.CacheInfo.Hits)
	return nil
}

// writeArtifacts writes every artifact into dir and returns the paths.
func writeArtifacts(dir string, artifacts []pipeline.Artifact) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		path := filepath.Join(dir, a.Name)
		if err := os.WriteFile(path, a.Data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", a.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// parseOnly turns "1,3" into zero-based indices [0, 2].
func parseOnly(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid slide number %q", f)
		}
		out = append(out, n-1)
	}
	return out, nil
}
