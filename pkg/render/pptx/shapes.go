package pptx

import (
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/slidecraft/pkg/geometry"
)

// EMUPerUnit maps one canvas unit onto the widescreen page.
const EMUPerUnit = SlideCX / geometry.Width

// fontScale converts reference-page points to page points.
const fontScale = SlideCX * 72.0 / (EMUPerInch * geometry.Width * geometry.PointsPerUnit)

func emu(v float64) int64 { return int64(math.Round(v * EMUPerUnit)) }

// fontSize returns a DrawingML sz value (hundredths of a point).
func fontSize(pt float64) int { return int(math.Round(pt * fontScale * 100)) }

// picture is an image primitive whose bytes were fetched and embedded.
type picture struct {
	relID string
	crop  crop
}

// crop is a DrawingML srcRect in thousandths of a percent.
type crop struct{ l, t, r, b int }

// coverCrop trims the source so it fills box without distortion.
func coverCrop(imgW, imgH int, box geometry.Box) crop {
	if imgW <= 0 || imgH <= 0 || box.W <= 0 || box.H <= 0 {
		return crop{}
	}
	imgAspect := float64(imgW) / float64(imgH)
	boxAspect := box.W / box.H
	switch {
	case imgAspect > boxAspect:
		side := int(math.Round((1 - boxAspect/imgAspect) / 2 * 100000))
		return crop{l: side, r: side}
	case imgAspect < boxAspect:
		side := int(math.Round((1 - imgAspect/boxAspect) / 2 * 100000))
		return crop{t: side, b: side}
	}
	return crop{}
}

// slideBuilder accumulates the spTree of one slide.
type slideBuilder struct {
	b      strings.Builder
	nextID int
}

func newSlideBuilder() *slideBuilder { return &slideBuilder{nextID: 2} }

func (sb *slideBuilder) id() int {
	id := sb.nextID
	sb.nextID++
	return id
}

// isBackground reports whether p can become the slide's p:bg fill.
func isBackground(p geometry.Primitive) bool {
	return p.Role == geometry.RoleBackground && p.Kind == geometry.KindRect &&
		p.Rotation == 0 && p.Box == geometry.Full && p.Fill != nil && opacity(p) >= 1
}

func opacity(p geometry.Primitive) float64 {
	if p.Opacity <= 0 {
		return 1
	}
	return p.Opacity
}

func backgroundXML(p geometry.Primitive) string {
	return `<p:bg><p:bgPr>` + fillXML(p.Fill, 1) + `<a:effectLst/></p:bgPr></p:bg>`
}

func fillXML(f *geometry.Fill, alpha float64) string {
	if f == nil {
		return `<a:noFill/>`
	}
	if g := f.Gradient; g != nil {
		ang := int(math.Round(normDegrees(g.Angle) * 60000))
		return fmt.Sprintf(`<a:gradFill rotWithShape="1"><a:gsLst><a:gs pos="0">%s</a:gs><a:gs pos="100000">%s</a:gs></a:gsLst><a:lin ang="%d" scaled="0"/></a:gradFill>`,
			srgb(g.From, alpha), srgb(g.To, alpha), ang)
	}
	return `<a:solidFill>` + srgb(f.Color, alpha) + `</a:solidFill>`
}

func srgb(hex string, alpha float64) string {
	hex = strings.ToUpper(strings.TrimPrefix(hex, "#"))
	if alpha >= 1 {
		return fmt.Sprintf(`<a:srgbClr val="%s"/>`, hex)
	}
	return fmt.Sprintf(`<a:srgbClr val="%s"><a:alpha val="%d"/></a:srgbClr>`, hex, int(math.Round(alpha*100000)))
}

func normDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func xfrm(p geometry.Primitive, flipV bool) string {
	var attrs string
	if p.Rotation != 0 {
		attrs += fmt.Sprintf(` rot="%d"`, int(math.Round(normDegrees(p.Rotation)*60000)))
	}
	if flipV {
		attrs += ` flipV="1"`
	}
	return fmt.Sprintf(`<a:xfrm%s><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`,
		attrs, emu(p.Box.X), emu(p.Box.Y), emu(p.Box.W), emu(p.Box.H))
}

func (sb *slideBuilder) shape(p geometry.Primitive) {
	prst, flip := "rect", false
	switch p.Kind {
	case geometry.KindEllipse:
		prst = "ellipse"
	case geometry.KindTriangle:
		// rtTriangle has its right angle bottom-left; flipping puts it top-left.
		prst, flip = "rtTriangle", true
	}
	id := sb.id()
	fmt.Fprintf(&sb.b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s %d"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`, id, shapeName(p.Role), id)
	fmt.Fprintf(&sb.b, `<p:spPr>%s<a:prstGeom prst="%s"><a:avLst/></a:prstGeom>%s<a:ln><a:noFill/></a:ln></p:spPr>`,
		xfrm(p, flip), prst, fillXML(p.Fill, opacity(p)))
	sb.b.WriteString(`</p:sp>`)
}

func shapeName(r geometry.Role) string {
	if r == "" {
		return "Shape"
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

func (sb *slideBuilder) text(p geometry.Primitive) {
	t := p.Text
	id := sb.id()
	ph := ""
	switch p.Role {
	case geometry.RoleTitle:
		ph = `<p:ph type="title"/>`
	case geometry.RoleSubtitle:
		ph = `<p:ph type="subTitle" idx="1"/>`
	}
	fmt.Fprintf(&sb.b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s %d"/><p:cNvSpPr txBox="1"/><p:nvPr>%s</p:nvPr></p:nvSpPr>`, id, shapeName(p.Role), id, ph)
	fmt.Fprintf(&sb.b, `<p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`, xfrm(p, false))

	anchor := "ctr"
	if p.Role == geometry.RoleBody {
		anchor = "t"
	}
	fmt.Fprintf(&sb.b, `<p:txBody><a:bodyPr wrap="square" lIns="0" tIns="0" rIns="0" bIns="0" anchor="%s"><a:normAutofit/></a:bodyPr><a:lstStyle/>`, anchor)

	sz := fontSize(t.Size)
	spacing := t.LineSpacing
	if spacing == 0 {
		spacing = 1.15
	}
	for _, para := range strings.Split(t.Value, "\n") {
		sb.b.WriteString(`<a:p>`)
		fmt.Fprintf(&sb.b, `<a:pPr algn="%s"`, alignment(t.Align))
		if t.Bullet != "" {
			indent := emu(geometry.BulletIndent(t))
			fmt.Fprintf(&sb.b, ` marL="%d" indent="%d">`, indent, -indent)
		} else {
			sb.b.WriteString(`>`)
		}
		fmt.Fprintf(&sb.b, `<a:lnSpc><a:spcPct val="%d"/></a:lnSpc>`, int(math.Round(spacing*100000)))
		if t.Bullet != "" {
			bc := t.BulletColor
			if bc == "" {
				bc = t.Color
			}
			fmt.Fprintf(&sb.b, `<a:buClr>%s</a:buClr><a:buFont typeface="Arial"/><a:buChar char="%s"/>`, srgb(bc, 1), esc(t.Bullet))
		} else {
			sb.b.WriteString(`<a:buNone/>`)
		}
		sb.b.WriteString(`</a:pPr>`)
		bold := 0
		if t.Bold {
			bold = 1
		}
		fmt.Fprintf(&sb.b, `<a:r><a:rPr lang="en-US" sz="%d" b="%d" dirty="0">%s<a:latin typeface="%s"/></a:rPr><a:t>%s</a:t></a:r>`,
			sz, bold, `<a:solidFill>`+srgb(t.Color, 1)+`</a:solidFill>`, esc(t.Font), esc(para))
		sb.b.WriteString(`</a:p>`)
	}
	sb.b.WriteString(`</p:txBody></p:sp>`)
}

func alignment(a geometry.Align) string {
	switch a {
	case geometry.AlignCenter:
		return "ctr"
	case geometry.AlignRight:
		return "r"
	}
	return "l"
}

func (sb *slideBuilder) picture(p geometry.Primitive, pic picture) {
	id := sb.id()
	fmt.Fprintf(&sb.b, `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Picture %d" descr="%s"/><p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`, id, id, esc(p.Source))
	fmt.Fprintf(&sb.b, `<p:blipFill><a:blip r:embed="%s"/>`, pic.relID)
	if c := pic.crop; c != (crop{}) {
		fmt.Fprintf(&sb.b, `<a:srcRect l="%d" t="%d" r="%d" b="%d"/>`, c.l, c.t, c.r, c.b)
	}
	sb.b.WriteString(`<a:stretch><a:fillRect/></a:stretch></p:blipFill>`)
	fmt.Fprintf(&sb.b, `<p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`, xfrm(p, false))
}

func slideXML(bg, tree string) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, `<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">`, nsDrawing, nsOfficeRels, nsPresentation)
	b.WriteString(`<p:cSld>`)
	b.WriteString(bg)
	b.WriteString(`<p:spTree>`)
	b.WriteString(groupProps)
	b.WriteString(tree)
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return b.String()
}
