// Package pkg provides the libraries behind SlideCraft, a slide deck builder.
//
// # Overview
//
// SlideCraft turns a prompt or a deck description into themed slides. The
// same resolved geometry feeds every surface: the SVG preview, PNG and PDF
// renders, handouts and the PowerPoint document.
//
// # Architecture
//
// The typical data flow:
//
//	prompt
//	   ↓
//	[generator] (remote model or offline template)
//	   ↓
//	[deck] (presentation model + validation)
//	   ↓
//	[layout] (variant per slide) + [theme] (palette per position)
//	   ↓
//	[geometry] (positioned primitives on a 10 × 5.625 canvas)
//	   ↓
//	[render/sink] SVG/PNG/PDF/JSON/handouts, [render/pptx] .pptx
//
// # Quick Start
//
// Resolve and render one slide:
//
//	p, _ := deck.Load("deck.json")
//	slides, _ := geometry.Deck(p)
//	svg := sink.RenderSVG(slides[0])
//
// Export a document:
//
//	exp := export.New(export.WithSaver(export.FileSaver{Dir: "dist"}))
//	res, _ := exp.Export(ctx, p)
//	fmt.Println(res.Path)
//
// # Main Packages
//
// ## Domain
//
// [deck] - Presentations, slides, slide types and structural validation.
//
// [theme] - The fixed theme catalog and the position rule.
//
// [layout] - Deterministic layout variant selection.
//
// [geometry] - Resolution of a slide, its theme and its variant into
// primitives with boxes, fills and text.
//
// [preview] - Screen navigation state: current index, frame and thumbnails.
//
// [generator] - Prompt to deck through an OpenAI-compatible endpoint, with
// an offline template fallback.
//
// ## Output
//
// [render/sink] - SVG, PNG, PDF, JSON and Markdown/HTML handouts.
//
// [render/pptx] - The OOXML presentation writer.
//
// [render/outline] - Deck structure as Graphviz DOT or SVG.
//
// [export] - Document export: theme choice, file naming, saving and
// notifications.
//
// [pipeline] - Load → resolve → render with artifact caching, shared by the
// CLI and the server.
//
// ## Infrastructure
//
// [server] - HTTP API and websocket preview sync.
//
// [session] - Chat sessions with memory, file, SQLite, Redis and MongoDB
// stores.
//
// [cache], [httputil], [config], [errors], [observability], [buildinfo].
//
// [deck]: https://pkg.go.dev/github.com/matzehuels/slidecraft/pkg/deck
// [theme]: https://pkg.go.dev/github.com/matzehuels/slidecraft/pkg/theme
// [layout]: https://pkg.go.dev/github.com/matzehuels/slidecraft/pkg/layout
// [geometry]: https://pkg.go.dev/github.com/matzehuels/slidecraft/pkg/geometry
// [preview]: https://pkg.go.dev/github.com/matzehuels/slidecraft/pkg/preview
// [generator]: https://pkg.go.dev/github.com/matzehuels/slidecraft/pkg/generator
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/slidecraft/pkg/render/sink
// [render/pptx]: https://pkg.go.dev/github.com/matzehuels/slidecraft/pkg/render/pptx
// [render/outline]: https://pkg.go.dev/github.com/matzehuels/slidecraft/pkg/render/outline
// [export]: https://pkg.go.dev/github.com/matzehuels/slidecraft/pkg/export
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/slidecraft/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/slidecraft/pkg/server
// [session]: https://pkg.go.dev/github.com/matzehuels/slidecraft/pkg/session
// [cache]: https://pkg.go.dev/github.com/matzehuels/slidecraft/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/slidecraft/pkg/httputil
// [config]: https://pkg.go.dev/github.com/matzehuels/slidecraft/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/slidecraft/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/slidecraft/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/slidecraft/pkg/buildinfo
package pkg
