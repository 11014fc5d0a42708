// Package render turns resolved slides into output files.
//
// # Overview
//
// Every renderer consumes [geometry.Slide] values, so screen previews and
// exported documents always share one layout:
//
//   - Format conversion (SVG to PDF/PNG) via rsvg-convert, in this package
//   - Screen formats (SVG, PNG, PDF, JSON, handouts) in [sink]
//   - Office documents in [pptx]
//   - Deck outline diagrams in [outline]
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG with the external rsvg-convert tool
// (from librsvg). [PagesToPDF] joins several slide SVGs into one
// multi-page PDF.
//
//	svg := sink.RenderSVG(slide)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [sink]: github.com/matzehuels/slidecraft/pkg/render/sink
// [pptx]: github.com/matzehuels/slidecraft/pkg/render/pptx
// [outline]: github.com/matzehuels/slidecraft/pkg/render/outline
// [geometry.Slide]: github.com/matzehuels/slidecraft/pkg/geometry.Slide
package render
