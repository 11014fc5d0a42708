package geometry

import (
	"strings"
	"unicode/utf8"
)

// Average glyph advance as a fraction of the font size.
const (
	charWidthRegular = 0.52
	charWidthBold    = 0.58
)

// LineHeight returns the baseline-to-baseline distance in units for t.
func LineHeight(t *Text) float64 {
	spacing := t.LineSpacing
	if spacing == 0 {
		spacing = 1.15
	}
	return t.Size * spacing / PointsPerUnit
}

// Lines greedily word-wraps t to the width of b. The estimate is
// font-agnostic, so every renderer breaks lines at the same words.
func Lines(t *Text, b Box) []string {
	width := b.W
	if t.Bullet != "" {
		width -= BulletIndent(t)
	}
	ratio := charWidthRegular
	if t.Bold {
		ratio = charWidthBold
	}
	maxChars := int(width * PointsPerUnit / (t.Size * ratio))
	if maxChars < 4 {
		maxChars = 4
	}

	var lines []string
	for _, para := range strings.Split(t.Value, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if utf8.RuneCountInString(line)+1+utf8.RuneCountInString(w) > maxChars {
				lines = append(lines, line)
				line = w
				continue
			}
			line += " " + w
		}
		lines = append(lines, line)
	}
	return lines
}

// BulletIndent is the horizontal space reserved for a bullet marker.
func BulletIndent(t *Text) float64 {
	return t.Size * 1.1 / PointsPerUnit
}
