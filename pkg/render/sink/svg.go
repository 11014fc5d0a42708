package sink

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/slidecraft/pkg/colors"
	"github.com/matzehuels/slidecraft/pkg/geometry"
)

// PixelsPerUnit is the default screen density.
const PixelsPerUnit = 128.0

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	scale   float64
	counter string
	footer  string
	href    func(src string) string
}

// WithScale sets pixels per canvas unit.
func WithScale(k float64) SVGOption { return func(r *svgRenderer) { r.scale = k } }

// WithCounter draws an "i / n" counter in the bottom-right corner.
func WithCounter(index, total int) SVGOption {
	return func(r *svgRenderer) { r.counter = fmt.Sprintf("%d / %d", index+1, total) }
}

// WithFooter draws the footer rule in color, matching the exported master.
func WithFooter(color string) SVGOption { return func(r *svgRenderer) { r.footer = color } }

// WithImageHref rewrites image sources, for example into data URIs.
func WithImageHref(fn func(src string) string) SVGOption {
	return func(r *svgRenderer) { r.href = fn }
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{scale: PixelsPerUnit}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = PixelsPerUnit
	}
	return r
}

// RenderSVG draws one slide.
func RenderSVG(s geometry.Slide, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	k := r.scale
	w, h := geometry.Width*k, geometry.Height*k

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(slideTitle(s)))

	var defs bytes.Buffer
	var body bytes.Buffer
	grad := 0
	for i, p := range s.Primitives {
		fill := "none"
		if p.Fill != nil {
			if g := p.Fill.Gradient; g != nil {
				grad++
				id := fmt.Sprintf("g%d-%d", s.Index, grad)
				writeGradient(&defs, id, g)
				fill = "url(#" + id + ")"
			} else {
				fill = colors.CSS(p.Fill.Color)
			}
		}
		r.primitive(&body, i, p, fill)
	}
	if r.footer != "" {
		y := geometry.FooterY * k
		fmt.Fprintf(&body, `  <rect class="footer" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			0.375*k, y, w-0.75*k, math.Max(1, 0.015*k), colors.CSS(r.footer))
	}
	if r.counter != "" {
		color := "#6B7280"
		if s.Theme.LightText != "" {
			color = colors.CSS(s.Theme.LightText)
		}
		fmt.Fprintf(&body, `  <text class="counter" x="%.1f" y="%.1f" font-family="%s, sans-serif" font-size="%.1f" fill="%s" text-anchor="end">%s</text>`+"\n",
			w-0.3*k, h-0.15*k, geometry.FontBody, 10*k/geometry.PointsPerUnit, color, r.counter)
	}

	if defs.Len() > 0 {
		buf.WriteString("  <defs>\n")
		buf.Write(defs.Bytes())
		buf.WriteString("  </defs>\n")
	}
	buf.Write(body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func slideTitle(s geometry.Slide) string {
	if t := s.Texts(geometry.RoleTitle); len(t) > 0 {
		return t[0]
	}
	return fmt.Sprintf("Slide %d", s.Index+1)
}

// gradientVector maps a clockwise angle onto bounding-box coordinates.
func gradientVector(angle float64) (x1, y1, x2, y2 float64) {
	rad := angle * math.Pi / 180
	dx, dy := math.Cos(rad)/2, math.Sin(rad)/2
	return 0.5 - dx, 0.5 - dy, 0.5 + dx, 0.5 + dy
}

func writeGradient(buf *bytes.Buffer, id string, g *geometry.Gradient) {
	x1, y1, x2, y2 := gradientVector(g.Angle)
	fmt.Fprintf(buf, `    <linearGradient id="%s" x1="%.3f" y1="%.3f" x2="%.3f" y2="%.3f">`+"\n", id, x1, y1, x2, y2)
	fmt.Fprintf(buf, `      <stop offset="0" stop-color="%s"/>`+"\n", colors.CSS(g.From))
	fmt.Fprintf(buf, `      <stop offset="1" stop-color="%s"/>`+"\n", colors.CSS(g.To))
	buf.WriteString("    </linearGradient>\n")
}

func opacityAttr(p geometry.Primitive) string {
	if p.Opacity <= 0 || p.Opacity >= 1 {
		return ""
	}
	return fmt.Sprintf(` opacity="%.2f"`, p.Opacity)
}

func rotateAttr(p geometry.Primitive, k float64) string {
	if p.Rotation == 0 {
		return ""
	}
	cx, cy := p.Box.Center()
	return fmt.Sprintf(` transform="rotate(%.2f %.1f %.1f)"`, p.Rotation, cx*k, cy*k)
}

func (r svgRenderer) primitive(buf *bytes.Buffer, i int, p geometry.Primitive, fill string) {
	k := r.scale
	b := p.Box.Scale(k)
	class := fmt.Sprintf(`class="%s" data-index="%d"`, p.Role, i)
	switch p.Kind {
	case geometry.KindRect:
		fmt.Fprintf(buf, `  <rect %s x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"%s%s/>`+"\n",
			class, b.X, b.Y, b.W, b.H, fill, opacityAttr(p), rotateAttr(p, k))
	case geometry.KindEllipse:
		cx, cy := b.Center()
		fmt.Fprintf(buf, `  <ellipse %s cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" fill="%s"%s%s/>`+"\n",
			class, cx, cy, b.W/2, b.H/2, fill, opacityAttr(p), rotateAttr(p, k))
	case geometry.KindTriangle:
		fmt.Fprintf(buf, `  <polygon %s points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s"%s%s/>`+"\n",
			class, b.X, b.Y, b.Right(), b.Y, b.X, b.Bottom(), fill, opacityAttr(p), rotateAttr(p, k))
	case geometry.KindImage:
		src := p.Source
		if r.href != nil {
			src = r.href(src)
		}
		if src == "" {
			return
		}
		fmt.Fprintf(buf, `  <image %s x="%.1f" y="%.1f" width="%.1f" height="%.1f" href="%s" xlink:href="%s" preserveAspectRatio="xMidYMid slice"%s/>`+"\n",
			class, b.X, b.Y, b.W, b.H, escapeXML(src), escapeXML(src), opacityAttr(p))
	case geometry.KindText:
		if p.Text != nil {
			r.text(buf, class, p)
		}
	}
}

func (r svgRenderer) text(buf *bytes.Buffer, class string, p geometry.Primitive) {
	k := r.scale
	t := p.Text
	b := p.Box.Scale(k)
	size := t.Size * k / geometry.PointsPerUnit
	lineH := geometry.LineHeight(t) * k
	lines := geometry.Lines(t, p.Box)

	top := b.Y
	if p.Role != geometry.RoleBody {
		top += (b.H - float64(len(lines))*lineH) / 2
	}
	baseline := func(i int) float64 { return top + float64(i)*lineH + lineH/2 + size*0.35 }

	x, anchor := b.X, "start"
	if t.Bullet != "" {
		fmt.Fprintf(buf, `  <text class="bullet" x="%.1f" y="%.1f" font-family="%s, sans-serif" font-size="%.1f" fill="%s">%s</text>`+"\n",
			b.X, baseline(0), t.Font, size, colors.CSS(cmp.Or(t.BulletColor, t.Color)), escapeXML(t.Bullet))
		x += geometry.BulletIndent(t) * k
	} else {
		switch t.Align {
		case geometry.AlignCenter:
			x, anchor = b.X+b.W/2, "middle"
		case geometry.AlignRight:
			x, anchor = b.Right(), "end"
		}
	}

	weight := "normal"
	if t.Bold {
		weight = "bold"
	}
	fmt.Fprintf(buf, `  <text %s x="%.1f" font-family="%s, sans-serif" font-size="%.1f" font-weight="%s" fill="%s" text-anchor="%s"%s>`,
		class, x, t.Font, size, weight, colors.CSS(t.Color), anchor, opacityAttr(p))
	for i, line := range lines {
		fmt.Fprintf(buf, `<tspan x="%.1f" y="%.1f">%s</tspan>`, x, baseline(i), escapeXML(line))
	}
	buf.WriteString("</text>\n")
}

func escapeXML(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return ""
	}
	return b.String()
}
