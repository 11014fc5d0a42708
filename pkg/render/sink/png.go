package sink

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/golang/freetype/raster"
	"github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/slidecraft/pkg/colors"
	"github.com/matzehuels/slidecraft/pkg/geometry"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale  float64
	images func(src string) (image.Image, bool)
	faces  map[faceKey]font.Face
}

type faceKey struct {
	bold bool
	size float64
}

// WithPNGScale sets pixels per canvas unit (default [PixelsPerUnit]).
func WithPNGScale(k float64) PNGOption { return func(r *pngRenderer) { r.scale = k } }

// WithPNGImages supplies decoded images for image primitives. Sources the
// function does not know are left undrawn.
func WithPNGImages(fn func(src string) (image.Image, bool)) PNGOption {
	return func(r *pngRenderer) { r.images = fn }
}

var (
	regularFont, _ = opentype.Parse(goregular.TTF)
	boldFont, _    = opentype.Parse(gobold.TTF)
)

// RenderPNG rasterizes one slide without external tools. Paths go through
// the freetype rasterizer, text through the Go fonts.
func RenderPNG(s geometry.Slide, opts ...PNGOption) ([]byte, error) {
	img := RenderImage(s, opts...)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderImage is [RenderPNG] without the encoding step.
func RenderImage(s geometry.Slide, opts ...PNGOption) *image.RGBA {
	r := pngRenderer{scale: PixelsPerUnit, faces: map[faceKey]font.Face{}}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = PixelsPerUnit
	}
	defer r.closeFaces()

	w := int(math.Round(geometry.Width * r.scale))
	h := int(math.Round(geometry.Height * r.scale))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(img, img.Bounds(), image.White, image.Point{}, xdraw.Src)

	ras := raster.NewRasterizer(w, h)
	for _, p := range s.Primitives {
		switch p.Kind {
		case geometry.KindRect, geometry.KindEllipse, geometry.KindTriangle:
			r.fillShape(img, ras, p)
		case geometry.KindImage:
			r.drawImage(img, p)
		case geometry.KindText:
			if p.Text != nil {
				r.drawText(img, p)
			}
		}
	}
	return img
}

// outline returns the primitive's polygon in pixels, rotated about its center.
func outline(p geometry.Primitive, k float64) [][2]float64 {
	b := p.Box.Scale(k)
	var pts [][2]float64
	switch p.Kind {
	case geometry.KindEllipse:
		cx, cy := b.Center()
		const n = 64
		for i := range n {
			a := 2 * math.Pi * float64(i) / n
			pts = append(pts, [2]float64{cx + b.W/2*math.Cos(a), cy + b.H/2*math.Sin(a)})
		}
	case geometry.KindTriangle:
		pts = [][2]float64{{b.X, b.Y}, {b.Right(), b.Y}, {b.X, b.Bottom()}}
	default:
		pts = [][2]float64{{b.X, b.Y}, {b.Right(), b.Y}, {b.Right(), b.Bottom()}, {b.X, b.Bottom()}}
	}
	if p.Rotation != 0 {
		cx, cy := b.Center()
		sin, cos := math.Sincos(p.Rotation * math.Pi / 180)
		for i, pt := range pts {
			dx, dy := pt[0]-cx, pt[1]-cy
			pts[i] = [2]float64{cx + dx*cos - dy*sin, cy + dx*sin + dy*cos}
		}
	}
	return pts
}

func fix(pt [2]float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(pt[0] * 64), Y: fixed.Int26_6(pt[1] * 64)}
}

func (r *pngRenderer) fillShape(img *image.RGBA, ras *raster.Rasterizer, p geometry.Primitive) {
	if p.Fill == nil {
		return
	}
	pts := outline(p, r.scale)
	ras.Clear()
	ras.UseNonZeroWinding = true
	ras.Start(fix(pts[0]))
	for _, pt := range pts[1:] {
		ras.Add1(fix(pt))
	}
	ras.Add1(fix(pts[0]))
	ras.Rasterize(newFillPainter(img, p, r.scale))
}

// fillPainter blends solid or gradient spans onto an opaque canvas.
type fillPainter struct {
	img     *image.RGBA
	opacity float64
	solid   color.NRGBA
	ramp    []color.NRGBA // nil for solid fills
	x0, y0  float64
	dx, dy  float64
	lenSq   float64
}

func newFillPainter(img *image.RGBA, p geometry.Primitive, k float64) *fillPainter {
	fp := &fillPainter{img: img, opacity: p.Opacity}
	if fp.opacity <= 0 || fp.opacity > 1 {
		fp.opacity = 1
	}
	g := p.Fill.Gradient
	if g == nil {
		fp.solid = colors.RGBA(p.Fill.Color, 1)
		return fp
	}
	from, _ := colors.Parse(g.From)
	to, _ := colors.Parse(g.To)
	fp.ramp = make([]color.NRGBA, 256)
	for i := range fp.ramp {
		c := from.BlendRgb(to, float64(i)/255).Clamped()
		fp.ramp[i] = toNRGBA(c)
	}
	b := p.Box.Scale(k)
	x1, y1, x2, y2 := gradientVector(g.Angle)
	fp.x0, fp.y0 = b.X+x1*b.W, b.Y+y1*b.H
	fp.dx, fp.dy = (x2-x1)*b.W, (y2-y1)*b.H
	fp.lenSq = fp.dx*fp.dx + fp.dy*fp.dy
	return fp
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func (fp *fillPainter) at(x, y int) color.NRGBA {
	if fp.ramp == nil || fp.lenSq == 0 {
		if fp.ramp != nil {
			return fp.ramp[0]
		}
		return fp.solid
	}
	t := ((float64(x)+0.5-fp.x0)*fp.dx + (float64(y)+0.5-fp.y0)*fp.dy) / fp.lenSq
	t = math.Max(0, math.Min(1, t))
	return fp.ramp[int(t*255)]
}

// Paint implements raster.Painter.
func (fp *fillPainter) Paint(spans []raster.Span, done bool) {
	bounds := fp.img.Bounds()
	for _, s := range spans {
		if s.Y < bounds.Min.Y || s.Y >= bounds.Max.Y {
			continue
		}
		x0, x1 := max(s.X0, bounds.Min.X), min(s.X1, bounds.Max.X)
		a := float64(s.Alpha) / 0xffff * fp.opacity
		for x := x0; x < x1; x++ {
			blend(fp.img, x, s.Y, fp.at(x, s.Y), a)
		}
	}
}

func blend(img *image.RGBA, x, y int, c color.NRGBA, a float64) {
	i := img.PixOffset(x, y)
	px := img.Pix[i : i+4 : i+4]
	px[0] = uint8(float64(px[0])*(1-a) + float64(c.R)*a + 0.5)
	px[1] = uint8(float64(px[1])*(1-a) + float64(c.G)*a + 0.5)
	px[2] = uint8(float64(px[2])*(1-a) + float64(c.B)*a + 0.5)
	px[3] = 255
}

// coverRect returns the centered part of src with the aspect of dst.
func coverRect(src image.Rectangle, dstW, dstH float64) image.Rectangle {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	if sw == 0 || sh == 0 || dstW == 0 || dstH == 0 {
		return src
	}
	if sw/sh > dstW/dstH {
		keep := int(math.Round(sh * dstW / dstH))
		off := (src.Dx() - keep) / 2
		return image.Rect(src.Min.X+off, src.Min.Y, src.Min.X+off+keep, src.Max.Y)
	}
	keep := int(math.Round(sw * dstH / dstW))
	off := (src.Dy() - keep) / 2
	return image.Rect(src.Min.X, src.Min.Y+off, src.Max.X, src.Min.Y+off+keep)
}

func (r *pngRenderer) drawImage(img *image.RGBA, p geometry.Primitive) {
	if r.images == nil {
		return
	}
	src, ok := r.images(p.Source)
	if !ok || src == nil {
		return
	}
	b := p.Box.Scale(r.scale)
	dst := image.Rect(int(math.Round(b.X)), int(math.Round(b.Y)), int(math.Round(b.Right())), int(math.Round(b.Bottom())))
	xdraw.CatmullRom.Scale(img, dst, src, coverRect(src.Bounds(), b.W, b.H), xdraw.Over, nil)
}

func (r *pngRenderer) face(bold bool, px float64) font.Face {
	key := faceKey{bold: bold, size: math.Round(px*4) / 4}
	if f, ok := r.faces[key]; ok {
		return f
	}
	fnt := regularFont
	if bold {
		fnt = boldFont
	}
	if fnt == nil {
		return nil
	}
	f, err := opentype.NewFace(fnt, &opentype.FaceOptions{Size: key.size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil
	}
	r.faces[key] = f
	return f
}

func (r *pngRenderer) closeFaces() {
	for _, f := range r.faces {
		f.Close()
	}
}

func (r *pngRenderer) drawText(img *image.RGBA, p geometry.Primitive) {
	k := r.scale
	t := p.Text
	b := p.Box.Scale(k)
	size := t.Size * k / geometry.PointsPerUnit
	face := r.face(t.Bold, size)
	if face == nil {
		return
	}
	lineH := geometry.LineHeight(t) * k
	lines := geometry.Lines(t, p.Box)

	top := b.Y
	if p.Role != geometry.RoleBody {
		top += (b.H - float64(len(lines))*lineH) / 2
	}
	baseline := func(i int) float64 { return top + float64(i)*lineH + lineH/2 + size*0.35 }

	d := &font.Drawer{Dst: img, Src: image.NewUniform(colors.RGBA(t.Color, 1)), Face: face}
	left := b.X
	if t.Bullet != "" {
		bd := &font.Drawer{Dst: img, Src: image.NewUniform(colors.RGBA(bulletColor(t), 1)), Face: r.face(false, size)}
		if bd.Face != nil {
			bd.Dot = fixed.P(int(b.X), int(baseline(0)))
			bd.DrawString(t.Bullet)
		}
		left += geometry.BulletIndent(t) * k
	}
	for i, line := range lines {
		x := left
		if t.Bullet == "" {
			w := float64(d.MeasureString(line).Round())
			switch t.Align {
			case geometry.AlignCenter:
				x = b.X + (b.W-w)/2
			case geometry.AlignRight:
				x = b.Right() - w
			}
		}
		d.Dot = fixed.P(int(math.Round(x)), int(math.Round(baseline(i))))
		d.DrawString(line)
	}
}

func bulletColor(t *geometry.Text) string {
	if t.BulletColor != "" {
		return t.BulletColor
	}
	return t.Color
}
