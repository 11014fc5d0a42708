package geometry

import (
	"math"
	"strconv"

	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/layout"
	"github.com/matzehuels/slidecraft/pkg/theme"
)

const (
	white    = "FFFFFF"
	paleGray = "E5E7EB"
	bullet   = "•"
)

type recipe func(s deck.Slide, th theme.Theme) []Primitive

type key struct {
	typ     deck.Type
	variant layout.Variant
}

var recipes = map[key]recipe{
	{deck.TypeTitle, layout.Centered}:    titleCentered,
	{deck.TypeTitle, layout.LeftAligned}: titleLeftAligned,
	{deck.TypeTitle, layout.SplitScreen}: titleSplitScreen,
	{deck.TypeTitle, layout.Minimalist}:  titleMinimalist,

	{deck.TypeContent, layout.Classic}:   contentClassic,
	{deck.TypeContent, layout.TwoColumn}: contentTwoColumn,
	{deck.TypeContent, layout.Featured}:  contentFeatured,
	{deck.TypeContent, layout.Timeline}:  contentTimeline,

	{deck.TypeSection, layout.Bold}:     sectionBold,
	{deck.TypeSection, layout.Diagonal}: sectionDiagonal,
	{deck.TypeSection, layout.Gradient}: sectionGradient,
	{deck.TypeSection, layout.Minimal}:  sectionMinimal,
}

func background(th theme.Theme) Primitive { return rect(RoleBackground, Full, th.Background) }

func heading(role Role, b Box, value string, size float64, color string, align Align) Primitive {
	return text(role, b, Text{Value: value, Size: size, Bold: true, Color: color, Align: align, Font: FontHeading})
}

func body(role Role, b Box, value string, size float64, color string, align Align) Primitive {
	return text(role, b, Text{Value: value, Size: size, Color: color, Align: align, Font: FontBody})
}

// Title slides.

func titleCentered(s deck.Slide, th theme.Theme) []Primitive {
	out := []Primitive{gradient(KindRect, RoleBackground, Full, th.Gradient(), 45)}
	if s.HasImage() {
		out = append(out, image(Full, s.ImageURL), overlay(0.45))
	}
	out = append(out, heading(RoleTitle, Box{0.5, 1.6, 9, 1.4}, s.Title, 48, white, AlignCenter))
	if s.Subtitle != "" {
		out = append(out, body(RoleSubtitle, Box{0.5, 3.1, 9, 0.8}, s.Subtitle, 24, paleGray, AlignCenter))
	}
	return out
}

func titleLeftAligned(s deck.Slide, th theme.Theme) []Primitive {
	titleColor, subColor := th.Primary, th.Secondary
	out := []Primitive{background(th)}
	if s.HasImage() {
		out = append(out, image(Full, s.ImageURL), overlay(0.55))
		titleColor, subColor = white, paleGray
	}
	out = append(out,
		rect(RoleAccent, Box{0, 0, 0.2, Height}, th.Primary),
		heading(RoleTitle, Box{1.0, 1.8, 8.5, 1.2}, s.Title, 48, titleColor, AlignLeft),
	)
	if s.Subtitle != "" {
		out = append(out, body(RoleSubtitle, Box{1.0, 3.1, 8.5, 0.7}, s.Subtitle, 24, subColor, AlignLeft))
	}
	return out
}

func titleSplitScreen(s deck.Slide, th theme.Theme) []Primitive {
	half := Box{0, 0, Width / 2, Height}
	out := []Primitive{background(th), rect(RolePanel, half, th.Primary)}
	if s.HasImage() {
		out = append(out, image(half, s.ImageURL))
	}
	out = append(out, heading(RoleTitle, Box{5.3, 1.7, 4.4, 1.5}, s.Title, 40, th.Primary, AlignLeft))
	if s.Subtitle != "" {
		out = append(out, body(RoleSubtitle, Box{5.3, 3.3, 4.4, 0.8}, s.Subtitle, 20, th.LightText, AlignLeft))
	}
	return out
}

func titleMinimalist(s deck.Slide, th theme.Theme) []Primitive {
	out := []Primitive{
		background(th),
		heading(RoleTitle, Box{1.0, 1.7, 8.0, 1.2}, s.Title, 52, th.Text, AlignLeft),
		rect(RoleAccent, Box{1.0, 3.05, 2.5, 0.06}, th.Accent),
	}
	if s.Subtitle != "" {
		out = append(out, body(RoleSubtitle, Box{1.0, 3.25, 8.0, 0.7}, s.Subtitle, 22, th.LightText, AlignLeft))
	}
	return out
}

// Content slides.

// rows returns the vertical step for n evenly spaced items in avail height,
// never taller than maxStep.
func rows(n int, avail, maxStep float64) float64 {
	if n <= 0 {
		return 0
	}
	return math.Min(maxStep, avail/float64(n))
}

// itemSize shrinks the item font so a row still fits its step.
func itemSize(step, maxSize float64) float64 {
	fit := math.Floor(step*PointsPerUnit*0.62*2) / 2
	return math.Max(8, math.Min(maxSize, fit))
}

func bulletItem(b Box, value string, size float64, th theme.Theme) Primitive {
	return text(RoleBody, b, Text{
		Value:       value,
		Size:        size,
		Color:       th.Text,
		Align:       AlignLeft,
		Font:        FontBody,
		Bullet:      bullet,
		BulletColor: th.Accent,
		LineSpacing: 1.2,
	})
}

func contentClassic(s deck.Slide, th theme.Theme) []Primitive {
	out := []Primitive{
		background(th),
		rect(RolePanel, Box{0, 0, Width, 1.1}, th.Primary),
		heading(RoleTitle, Box{0.5, 0.15, 9, 0.8}, s.Title, 32, white, AlignCenter),
	}
	const top, bottom = 1.45, Height - 0.45
	step := rows(len(s.Content), bottom-top, 0.6)
	size := itemSize(step, 20)
	for i, item := range s.Content {
		out = append(out, bulletItem(Box{0.8, top + float64(i)*step, 8.4, step}, item, size, th))
	}
	return out
}

// SplitColumns partitions items at ceil(n/2): the first half fills the left
// column and the remainder the right.
func SplitColumns(items []string) (left, right []string) {
	mid := (len(items) + 1) / 2
	return items[:mid], items[mid:]
}

func contentTwoColumn(s deck.Slide, th theme.Theme) []Primitive {
	out := []Primitive{
		background(th),
		heading(RoleTitle, Box{0.5, 0.3, 9, 0.8}, s.Title, 32, th.Primary, AlignCenter),
		rect(RoleAccent, Box{0.5, 1.2, 9, 0.04}, th.Accent),
	}
	left, right := SplitColumns(s.Content)
	const top, bottom = 1.5, Height - 0.45
	step := rows(len(left), bottom-top, 0.6)
	size := itemSize(step, 18)
	for col, items := range [2][]string{left, right} {
		x := 0.6 + float64(col)*4.6
		for i, item := range items {
			out = append(out, bulletItem(Box{x, top + float64(i)*step, 4.2, step}, item, size, th))
		}
	}
	return out
}

func contentFeatured(s deck.Slide, th theme.Theme) []Primitive {
	out := []Primitive{
		background(th),
		heading(RoleTitle, Box{0.5, 0.3, 9, 0.8}, s.Title, 34, th.Primary, AlignCenter),
	}
	const top, bottom = 1.35, Height - 0.45
	step := rows(len(s.Content), bottom-top, 0.75)
	d := math.Min(0.45, step*0.8)
	size := itemSize(step, 18)
	for i, item := range s.Content {
		y := top + float64(i)*step
		badge := Box{0.8, y + (step-d)/2, d, d}
		out = append(out,
			ellipse(RoleAccent, badge, th.Secondary),
			heading(RoleBadge, badge, strconv.Itoa(i+1), math.Max(7, math.Round(d*PointsPerUnit*0.45)), white, AlignCenter),
			body(RoleBody, Box{1.45, y, 8.0, step}, item, size, th.Text, AlignLeft),
		)
	}
	return out
}

func contentTimeline(s deck.Slide, th theme.Theme) []Primitive {
	out := []Primitive{
		background(th),
		heading(RoleTitle, Box{0.5, 0.3, 9, 0.8}, s.Title, 32, th.Primary, AlignLeft),
	}
	if len(s.Content) == 0 {
		return out
	}
	const top, bottom, axis = 1.35, Height - 0.45, 1.4
	out = append(out, rect(RoleAccent, Box{axis - 0.025, 1.3, 0.05, bottom - 1.3}, th.Secondary))
	step := rows(len(s.Content), bottom-top, 0.85)
	const d = 0.22
	size := itemSize(step, 18)
	for i, item := range s.Content {
		y := top + float64(i)*step
		out = append(out,
			ellipse(RoleAccent, Box{axis - d/2, y + (step-d)/2, d, d}, th.Accent),
			body(RoleBody, Box{1.85, y, 7.6, step}, item, size, th.Text, AlignLeft),
		)
	}
	return out
}

// Section slides.

func sectionBold(s deck.Slide, th theme.Theme) []Primitive {
	return []Primitive{
		rect(RoleBackground, Full, th.Primary),
		heading(RoleTitle, Box{0.5, 2.0, 9, 1.4}, s.Title, 48, white, AlignCenter),
	}
}

func sectionDiagonal(s deck.Slide, th theme.Theme) []Primitive {
	wedge := gradient(KindTriangle, RolePanel, Box{-1, -1, 12, 9}, th.Gradient(), 45)
	wedge.Rotation = -6
	return []Primitive{
		background(th),
		wedge,
		heading(RoleTitle, Box{0.6, 1.4, 4.6, 1.2}, s.Title, 44, white, AlignLeft),
	}
}

func sectionGradient(s deck.Slide, th theme.Theme) []Primitive {
	return []Primitive{
		gradient(KindRect, RoleBackground, Full, th.Gradient(), 90),
		heading(RoleTitle, Box{1.0, 2.0, 8.0, 1.4}, s.Title, 46, white, AlignCenter),
	}
}

func sectionMinimal(s deck.Slide, th theme.Theme) []Primitive {
	return []Primitive{
		background(th),
		heading(RoleTitle, Box{0.8, 2.0, 8.4, 1.1}, s.Title, 44, th.Primary, AlignLeft),
		rect(RoleAccent, Box{0.8, 3.25, 3.5, 0.06}, th.Accent),
	}
}
