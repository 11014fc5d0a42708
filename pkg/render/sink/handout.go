package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/layout"
	"github.com/matzehuels/slidecraft/pkg/theme"
)

// HandoutOption configures [RenderMarkdown] and [RenderHTML].
type HandoutOption func(*handoutRenderer)

type handoutRenderer struct {
	notes  bool
	images bool
}

// WithNotes includes speaker notes.
func WithNotes() HandoutOption { return func(r *handoutRenderer) { r.notes = true } }

// WithHandoutImages includes slide images.
func WithHandoutImages() HandoutOption { return func(r *handoutRenderer) { r.images = true } }

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithXHTML()),
)

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`,
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "#", `\#`, "|", `\|`,
)

func escapeMarkdown(s string) string { return mdEscaper.Replace(s) }

// RenderMarkdown writes a speaker handout: one section per slide with its
// layout, title, subtitle and bullets, in deck order.
func RenderMarkdown(p *deck.Presentation, opts ...HandoutOption) []byte {
	r := handoutRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	if p == nil {
		buf.WriteString("# No Presentation Yet\n")
		return buf.Bytes()
	}
	fmt.Fprintf(&buf, "# %s\n\n", escapeMarkdown(p.Title))
	if p.Description != "" {
		fmt.Fprintf(&buf, "%s\n\n", escapeMarkdown(p.Description))
	}
	fmt.Fprintf(&buf, "_%d slides_\n", p.Len())

	for i, s := range p.Slides {
		fmt.Fprintf(&buf, "\n## %d. %s\n\n", i+1, escapeMarkdown(s.Title))
		if a, err := layout.Select(s.Type, i); err == nil {
			fmt.Fprintf(&buf, "%s slide · %s layout · %s\n\n", s.Type.Badge(), a.Variant, a.Theme.Name)
		} else {
			fmt.Fprintf(&buf, "%s slide\n\n", s.Type)
		}
		if s.Type == deck.TypeTitle && s.Subtitle != "" {
			fmt.Fprintf(&buf, "_%s_\n\n", escapeMarkdown(s.Subtitle))
		}
		if s.Type == deck.TypeContent {
			for _, item := range s.Content {
				fmt.Fprintf(&buf, "- %s\n", escapeMarkdown(item))
			}
			if len(s.Content) > 0 {
				buf.WriteString("\n")
			}
		}
		if r.images && s.HasImage() {
			fmt.Fprintf(&buf, "![%s](%s)\n\n", escapeMarkdown(s.Title), s.ImageURL)
		}
		if r.notes && strings.TrimSpace(s.Notes) != "" {
			for _, line := range strings.Split(strings.TrimSpace(s.Notes), "\n") {
				fmt.Fprintf(&buf, "> %s\n", escapeMarkdown(line))
			}
			buf.WriteString("\n")
		}
	}
	return append(bytes.TrimRight(buf.Bytes(), "\n"), '\n')
}

// RenderHTML converts the Markdown handout into a standalone page styled
// with the deck's first theme.
func RenderHTML(p *deck.Presentation, opts ...HandoutOption) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert(RenderMarkdown(p, opts...), &body); err != nil {
		return nil, err
	}
	th := theme.At(0)
	title := "SlideCraft"
	if p != nil {
		title = p.Title
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\"/>\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", escapeXML(title))
	fmt.Fprintf(&buf, "<style>body{font-family:Inter,sans-serif;max-width:46rem;margin:2rem auto;color:#%s}h1,h2{font-family:Poppins,sans-serif;color:#%s}blockquote{border-left:4px solid #%s;margin-left:0;padding-left:1rem;color:#%s}</style>\n",
		th.Text, th.Primary, th.Accent, th.LightText)
	buf.WriteString("</head>\n<body>\n")
	buf.Write(body.Bytes())
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}
