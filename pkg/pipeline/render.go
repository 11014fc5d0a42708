package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/geometry"
	"github.com/matzehuels/slidecraft/pkg/render/outline"
	"github.com/matzehuels/slidecraft/pkg/render/pptx"
	"github.com/matzehuels/slidecraft/pkg/render/sink"
)

// job is one artifact to produce.
type job struct {
	format string
	slide  int
}

// jobs expands formats into artifacts, per slide where the format is.
func jobs(opts Options, n int) []job {
	var out []job
	for _, f := range opts.Formats {
		if !perSlide[f] {
			out = append(out, job{f, DeckArtifact})
			continue
		}
		if len(opts.Only) > 0 {
			for _, i := range opts.Only {
				if i < n {
					out = append(out, job{f, i})
				}
			}
			continue
		}
		for i := range n {
			out = append(out, job{f, i})
		}
	}
	return out
}

// renderer renders jobs for one deck.
type renderer struct {
	p      *deck.Presentation
	slides []geometry.Slide
	opts   Options
	images func(src string) (image.Image, bool)
}

func (r *renderer) render(ctx context.Context, j job) ([]byte, error) {
	switch j.format {
	case FormatSVG:
		return sink.RenderSVG(r.slides[j.slide], r.svgOptions(j.slide)...), nil
	case FormatPNG:
		opts := []sink.PNGOption{sink.WithPNGScale(r.px())}
		if r.images != nil {
			opts = append(opts, sink.WithPNGImages(r.images))
		}
		return sink.RenderPNG(r.slides[j.slide], opts...)
	case FormatPDF:
		opts := []sink.PDFOption{sink.WithPDFSVGOptions(sink.WithScale(r.px()))}
		if r.opts.Counter {
			opts = append(opts, sink.WithPDFCounter())
		}
		return sink.RenderPDF(r.slides, opts...)
	case FormatJSON:
		return sink.RenderJSON(r.slides, sink.WithJSONDeck(r.p), sink.WithJSONTheme(r.opts.Theme))
	case FormatMarkdown:
		return sink.RenderMarkdown(r.p, r.handoutOptions()...), nil
	case FormatHTML:
		return sink.RenderHTML(r.p, r.handoutOptions()...)
	case FormatOutline:
		return outline.RenderSVG(ctx, outline.ToDOT(r.p, outline.Options{Detailed: r.opts.Detailed}))
	case FormatOutlineDOT:
		return []byte(outline.ToDOT(r.p, outline.Options{Detailed: r.opts.Detailed})), nil
	}
	return nil, fmt.Errorf("unsupported format: %s", j.format)
}

// px is the output resolution in pixels per canvas unit.
func (r *renderer) px() float64 { return sink.PixelsPerUnit * r.opts.Scale }

func (r *renderer) svgOptions(i int) []sink.SVGOption {
	opts := []sink.SVGOption{sink.WithScale(r.px())}
	if r.opts.Counter {
		opts = append(opts, sink.WithCounter(i, len(r.slides)), sink.WithFooter(r.slides[i].Theme.Secondary))
	}
	return opts
}

func (r *renderer) handoutOptions() []sink.HandoutOption {
	var opts []sink.HandoutOption
	if r.opts.Notes {
		opts = append(opts, sink.WithNotes())
	}
	if r.opts.Images {
		opts = append(opts, sink.WithHandoutImages())
	}
	return opts
}

// imageLoader decodes images from src once per run. Failures are
// remembered so a broken URL is only tried once.
func imageLoader(ctx context.Context, src pptx.ImageSource) func(string) (image.Image, bool) {
	if src == nil {
		return nil
	}
	var (
		mu   sync.Mutex
		memo = map[string]image.Image{}
	)
	return func(url string) (image.Image, bool) {
		mu.Lock()
		defer mu.Unlock()
		if img, ok := memo[url]; ok {
			return img, img != nil
		}
		data, _, err := src.Fetch(ctx, url)
		if err != nil {
			memo[url] = nil
			return nil, false
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			memo[url] = nil
			return nil, false
		}
		memo[url] = img
		return img, true
	}
}
