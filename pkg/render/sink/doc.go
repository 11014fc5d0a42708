// Package sink renders resolved slides for screens and handouts.
//
// SVG is the reference surface: [RenderSVG] draws one slide at
// [PixelsPerUnit] pixels per canvas unit (1280 × 720 by default).
// [RenderPNG] rasterizes the same primitives natively, without external tools,
// and [RenderPDF] joins per-slide SVGs into one document with rsvg-convert.
// [RenderJSON] and the handout renderers describe a whole deck.
package sink
