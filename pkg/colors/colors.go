// Package colors converts theme hex strings into the forms each renderer
// needs and derives shades and contrast colors from them.
package colors

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
)

// Parse accepts "1E40AF", "#1E40AF", or any CSS color and returns an opaque color.
func Parse(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if len(s) == 6 && !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return colorful.Color{R: c.R, G: c.G, B: c.B}, nil
}

// Hex returns the color as 6 uppercase hex digits without '#', the form the
// theme catalog and OOXML use.
func Hex(c colorful.Color) string {
	return strings.ToUpper(strings.TrimPrefix(c.Clamped().Hex(), "#"))
}

// CSS returns "#rrggbb" for use in SVG attributes. Unparseable input is
// returned unchanged with a '#' prefix.
func CSS(s string) string {
	c, err := Parse(s)
	if err != nil {
		return "#" + strings.TrimPrefix(s, "#")
	}
	return c.Clamped().Hex()
}

// RGBA converts a theme color to an image/color value with the given opacity.
func RGBA(s string, opacity float64) color.NRGBA {
	c, err := Parse(s)
	if err != nil {
		return color.NRGBA{A: 255}
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(clamp01(opacity) * 255)}
}

// Darken lowers HSL lightness by amount (0..1).
func Darken(s string, amount float64) (string, error) {
	c, err := Parse(s)
	if err != nil {
		return "", err
	}
	h, sat, l := c.Hsl()
	return Hex(colorful.Hsl(h, sat, l-amount)), nil
}

// Lighten raises HSL lightness by amount (0..1).
func Lighten(s string, amount float64) (string, error) {
	c, err := Parse(s)
	if err != nil {
		return "", err
	}
	h, sat, l := c.Hsl()
	return Hex(colorful.Hsl(h, sat, l+amount)), nil
}

// Luminance returns the perceptual brightness of s in 0..1.
func Luminance(s string) (float64, error) {
	c, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return 0.299*c.R + 0.587*c.G + 0.114*c.B, nil
}

// Contrast picks white or near-black text for a fill.
func Contrast(fill string) string {
	l, err := Luminance(fill)
	if err != nil || l < 0.55 {
		return "FFFFFF"
	}
	return "111827"
}

// Blend mixes a toward b in Lab space; t=0 returns a, t=1 returns b.
func Blend(a, b string, t float64) (string, error) {
	ca, err := Parse(a)
	if err != nil {
		return "", err
	}
	cb, err := Parse(b)
	if err != nil {
		return "", err
	}
	return Hex(ca.BlendLab(cb, clamp01(t))), nil
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
