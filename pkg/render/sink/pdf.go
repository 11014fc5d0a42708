package sink

import (
	"github.com/matzehuels/slidecraft/pkg/geometry"
	"github.com/matzehuels/slidecraft/pkg/render"
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	svgOpts []SVGOption
	counter bool
}

// WithPDFSVGOptions passes options through to the underlying SVG renderer.
func WithPDFSVGOptions(opts ...SVGOption) PDFOption {
	return func(r *pdfRenderer) { r.svgOpts = opts }
}

// WithPDFCounter prints "i / n" on every page.
func WithPDFCounter() PDFOption { return func(r *pdfRenderer) { r.counter = true } }

// RenderPDF renders every slide as one page of a PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(slides []geometry.Slide, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	pages := make([][]byte, len(slides))
	for i, s := range slides {
		svgOpts := r.svgOpts
		if r.counter {
			svgOpts = append(svgOpts[:len(svgOpts):len(svgOpts)], WithCounter(i, len(slides)))
		}
		pages[i] = RenderSVG(s, svgOpts...)
	}
	return render.PagesToPDF(pages)
}
