// Package outline renders a deck's structure as a node-link diagram.
//
// # Overview
//
// The deck title is the root. Each section slide owns the slides that
// follow it until the next section; title slides and slides before the
// first section hang off the root. Nodes are filled with the color of the
// theme the slide is previewed in.
//
// # Usage
//
//	dot := outline.ToDOT(p, outline.Options{Detailed: true})
//	svg, err := outline.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package outline
