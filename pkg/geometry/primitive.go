package geometry

// Canvas dimensions in units.
const (
	Width  = 10.0
	Height = 5.625
)

// FooterY is where exported decks draw the master footer rule. Recipes keep
// content above it.
const FooterY = 5.25

// PointsPerUnit converts canvas units to reference-page points.
const PointsPerUnit = 72.0

// Font families used by the recipes. Renderers map them to concrete faces.
const (
	FontHeading = "Poppins"
	FontBody    = "Inter"
)

// Kind identifies what a primitive draws.
type Kind string

const (
	KindRect     Kind = "rect"
	KindEllipse  Kind = "ellipse"
	KindTriangle Kind = "triangle" // right angle at the box's top-left corner
	KindText     Kind = "text"
	KindImage    Kind = "image"
)

// Role tells renderers and tests what a primitive is for.
type Role string

const (
	RoleBackground Role = "background"
	RolePanel      Role = "panel"
	RoleAccent     Role = "accent"
	RoleOverlay    Role = "overlay"
	RoleImage      Role = "image"
	RoleTitle      Role = "title"
	RoleSubtitle   Role = "subtitle"
	RoleBody       Role = "body"
	RoleBadge      Role = "badge"
)

// IsText reports whether r labels a text primitive.
func (r Role) IsText() bool {
	switch r {
	case RoleTitle, RoleSubtitle, RoleBody, RoleBadge:
		return true
	}
	return false
}

// Align is horizontal text alignment.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Box is an axis-aligned rectangle in canvas units.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.W }

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.H }

// Center returns the box center.
func (b Box) Center() (float64, float64) { return b.X + b.W/2, b.Y + b.H/2 }

// Intersects reports whether two boxes share interior area. Touching edges
// do not count.
func (b Box) Intersects(o Box) bool {
	return b.X < o.Right() && o.X < b.Right() && b.Y < o.Bottom() && o.Y < b.Bottom()
}

// Scale multiplies every coordinate by k.
func (b Box) Scale(k float64) Box {
	return Box{X: b.X * k, Y: b.Y * k, W: b.W * k, H: b.H * k}
}

// Gradient is a two-stop linear fill. Angle is in degrees, clockwise from
// left-to-right.
type Gradient struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Angle float64 `json:"angle"`
}

// Fill is a solid color or a gradient. A non-nil Gradient wins.
type Fill struct {
	Color    string    `json:"color,omitempty"`
	Gradient *Gradient `json:"gradient,omitempty"`
}

// Text describes a text block.
type Text struct {
	Value       string  `json:"value"`
	Size        float64 `json:"size"`
	Bold        bool    `json:"bold,omitempty"`
	Color       string  `json:"color"`
	Align       Align   `json:"align"`
	Font        string  `json:"font"`
	Bullet      string  `json:"bullet,omitempty"`
	BulletColor string  `json:"bulletColor,omitempty"`
	LineSpacing float64 `json:"lineSpacing,omitempty"`
}

// Primitive is one drawable instruction.
type Primitive struct {
	Kind     Kind    `json:"kind"`
	Role     Role    `json:"role"`
	Box      Box     `json:"box"`
	Fill     *Fill   `json:"fill,omitempty"`
	Opacity  float64 `json:"opacity"`
	Rotation float64 `json:"rotation,omitempty"`
	Text     *Text   `json:"text,omitempty"`
	Source   string  `json:"source,omitempty"`
}

// Full is the full-bleed canvas box.
var Full = Box{X: 0, Y: 0, W: Width, H: Height}

func shape(kind Kind, role Role, b Box, color string) Primitive {
	return Primitive{Kind: kind, Role: role, Box: b, Fill: &Fill{Color: color}, Opacity: 1}
}

func rect(role Role, b Box, color string) Primitive { return shape(KindRect, role, b, color) }

func ellipse(role Role, b Box, color string) Primitive { return shape(KindEllipse, role, b, color) }

func gradient(kind Kind, role Role, b Box, stops [2]string, angle float64) Primitive {
	return Primitive{
		Kind:    kind,
		Role:    role,
		Box:     b,
		Fill:    &Fill{Gradient: &Gradient{From: stops[0], To: stops[1], Angle: angle}},
		Opacity: 1,
	}
}

func overlay(opacity float64) Primitive {
	p := rect(RoleOverlay, Full, "000000")
	p.Opacity = opacity
	return p
}

func image(b Box, src string) Primitive {
	return Primitive{Kind: KindImage, Role: RoleImage, Box: b, Source: src, Opacity: 1}
}

func text(role Role, b Box, t Text) Primitive {
	if t.Align == "" {
		t.Align = AlignLeft
	}
	if t.Font == "" {
		t.Font = FontBody
	}
	return Primitive{Kind: KindText, Role: role, Box: b, Text: &t, Opacity: 1}
}
