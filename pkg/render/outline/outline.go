package outline

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/slidecraft/pkg/colors"
	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/layout"
	"github.com/matzehuels/slidecraft/pkg/render"
)

// Options configures outline rendering.
type Options struct {
	// Detailed adds the layout variant and bullet count to each label.
	Detailed bool
}

// Edge is one parent to child link in the outline. From is "deck" for the root.
type Edge struct {
	From, To string
}

func nodeID(i int) string { return "s" + strconv.Itoa(i+1) }

// Edges returns the outline links in slide order.
func Edges(p *deck.Presentation) []Edge {
	var out []Edge
	parent := "deck"
	for i, s := range p.Slides {
		switch s.Type {
		case deck.TypeSection:
			out = append(out, Edge{From: "deck", To: nodeID(i)})
			parent = nodeID(i)
		case deck.TypeTitle:
			out = append(out, Edge{From: "deck", To: nodeID(i)})
		default:
			out = append(out, Edge{From: parent, To: nodeID(i)})
		}
	}
	return out
}

// ToDOT converts a presentation to Graphviz DOT.
func ToDOT(p *deck.Presentation, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Inter\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=%q, shape=note, fontsize=18];\n", "deck", p.Title)
	for i, s := range p.Slides {
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(i), strings.Join(fmtAttrs(s, i, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range Edges(p) {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(s deck.Slide, i int, detailed bool) string {
	label := fmt.Sprintf("%d. %s", i+1, s.Title)
	if !detailed {
		return label
	}
	parts := []string{s.Type.Badge()}
	if v, err := layout.VariantFor(s.Type, i); err == nil {
		parts = append(parts, string(v))
	}
	if s.Type == deck.TypeContent {
		parts = append(parts, fmt.Sprintf("%d bullets", len(s.Content)))
	}
	return label + "\n" + strings.Join(parts, " · ")
}

func fmtAttrs(s deck.Slide, i int, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(s, i, detailed))}
	a, err := layout.Select(s.Type, i)
	if err != nil {
		return append(attrs, `style="rounded,filled,dashed"`, "fillcolor=lightgrey")
	}
	switch s.Type {
	case deck.TypeSection, deck.TypeTitle:
		attrs = append(attrs,
			fmt.Sprintf("fillcolor=%q", colors.CSS(a.Theme.Primary)),
			fmt.Sprintf("fontcolor=%q", colors.CSS(colors.Contrast(a.Theme.Primary))))
	default:
		attrs = append(attrs, fmt.Sprintf("color=%q", colors.CSS(a.Theme.Secondary)))
	}
	return attrs
}

// RenderSVG renders DOT to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders DOT as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}
