package sink

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/slidecraft/pkg/colors"
	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/geometry"
	"github.com/matzehuels/slidecraft/pkg/render"
	"github.com/matzehuels/slidecraft/pkg/theme"
)

func testDeck() *deck.Presentation {
	return &deck.Presentation{
		ID:    "p",
		Title: "Ocean <Life> & More",
		Slides: []deck.Slide{
			{ID: "1", Type: deck.TypeTitle, Title: "Ocean <Life> & More", Subtitle: "Deep dive", Notes: "Welcome everyone"},
			{ID: "2", Type: deck.TypeContent, Title: "Zones", Content: []string{"Sunlight zone near the surface", "Twilight zone", "Midnight zone"}},
			{ID: "3", Type: deck.TypeSection, Title: "Creatures"},
		},
	}
}

func resolveAll(t *testing.T, p *deck.Presentation) []geometry.Slide {
	t.Helper()
	slides, err := geometry.Deck(p)
	if err != nil {
		t.Fatal(err)
	}
	return slides
}

func wellFormed(t *testing.T, data []byte) {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			t.Fatalf("malformed XML: %v\n%s", err, data)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	slides := resolveAll(t, testDeck())

	tests := []struct {
		name  string
		slide geometry.Slide
		opts  []SVGOption
		want  []string
		avoid []string
	}{
		{
			name:  "title escapes text and defines gradient",
			slide: slides[0],
			want:  []string{`viewBox="0 0 1280.0 720.0"`, "<linearGradient", "Ocean &lt;Life&gt; &amp; More", `text-anchor="middle"`},
			avoid: []string{"<Life>"},
		},
		{
			name:  "content draws bullets",
			slide: slides[1],
			want:  []string{`class="bullet"`, "Twilight zone"},
		},
		{
			name:  "counter and footer",
			slide: slides[2],
			opts:  []SVGOption{WithCounter(2, 3), WithFooter("3B82F6")},
			want:  []string{"3 / 3", `class="footer"`, "#3b82f6"},
		},
		{
			name:  "scale",
			slide: slides[2],
			opts:  []SVGOption{WithScale(64)},
			want:  []string{`width="640" height="360"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderSVG(tt.slide, tt.opts...)
			wellFormed(t, out)
			s := string(out)
			for _, w := range tt.want {
				if !strings.Contains(s, w) {
					t.Errorf("missing %q", w)
				}
			}
			for _, a := range tt.avoid {
				if strings.Contains(s, a) {
					t.Errorf("unexpected %q", a)
				}
			}
		})
	}
}

func TestRenderSVGDrawOrder(t *testing.T) {
	s := resolveAll(t, testDeck())[1]
	out := string(RenderSVG(s))
	prev := -1
	for i := range s.Primitives {
		marker := `data-index="` + itoa(i) + `"`
		pos := strings.Index(out, marker)
		if pos < 0 {
			t.Fatalf("primitive %d not drawn", i)
		}
		if pos < prev {
			t.Errorf("primitive %d drawn before %d", i, i-1)
		}
		prev = pos
	}
}

func itoa(i int) string {
	b, _ := json.Marshal(i)
	return string(b)
}

func TestRenderSVGImageHref(t *testing.T) {
	p := testDeck()
	p.Slides[0].ImageURL = "https://example.com/x.png"
	s := resolveAll(t, p)[0]

	out := string(RenderSVG(s, WithImageHref(func(string) string { return "data:image/png;base64,AAAA" })))
	if !strings.Contains(out, `href="data:image/png;base64,AAAA"`) {
		t.Error("image href not rewritten")
	}
	out = string(RenderSVG(s, WithImageHref(func(string) string { return "" })))
	if strings.Contains(out, "<image") {
		t.Error("empty href should drop the image")
	}
}

func TestGradientVector(t *testing.T) {
	tests := []struct {
		angle          float64
		x1, y1, x2, y2 float64
	}{
		{0, 0, 0.5, 1, 0.5},
		{90, 0.5, 0, 0.5, 1},
		{180, 1, 0.5, 0, 0.5},
	}
	for _, tt := range tests {
		x1, y1, x2, y2 := gradientVector(tt.angle)
		got := [4]float64{x1, y1, x2, y2}
		want := [4]float64{tt.x1, tt.y1, tt.x2, tt.y2}
		for i := range got {
			if d := got[i] - want[i]; d > 1e-9 || d < -1e-9 {
				t.Errorf("angle %v: got %v, want %v", tt.angle, got, want)
				break
			}
		}
	}
}

func near(a, b color.Color, tol int) bool {
	r1, g1, b1, _ := a.RGBA()
	r2, g2, b2, _ := b.RGBA()
	d := func(x, y uint32) int {
		v := int(x>>8) - int(y>>8)
		if v < 0 {
			v = -v
		}
		return v
	}
	return d(r1, r2) <= tol && d(g1, g2) <= tol && d(b1, b2) <= tol
}

func TestRenderPNG(t *testing.T) {
	th := theme.At(0)
	s := geometry.Slide{Theme: th}
	prims, err := geometry.Resolve(deck.Slide{Type: deck.TypeSection, Title: "Bold"}, th, "bold")
	if err != nil {
		t.Fatal(err)
	}
	s.Primitives = prims

	data, err := RenderPNG(s, WithPNGScale(32))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 180 {
		t.Fatalf("size = %v, want 320x180", b)
	}
	if c := img.At(2, 2); !near(c, colors.RGBA(th.Primary, 1), 2) {
		t.Errorf("corner = %v, want primary %s", c, th.Primary)
	}
}

func TestRenderImageShapes(t *testing.T) {
	s := geometry.Slide{Primitives: []geometry.Primitive{
		{Kind: geometry.KindRect, Box: geometry.Full, Fill: &geometry.Fill{Color: "000000"}, Opacity: 1},
		{Kind: geometry.KindEllipse, Box: geometry.Box{X: 1, Y: 1, W: 2, H: 2}, Fill: &geometry.Fill{Color: "FF0000"}, Opacity: 1},
		{Kind: geometry.KindTriangle, Box: geometry.Box{X: 5, Y: 1, W: 2, H: 2}, Fill: &geometry.Fill{Color: "00FF00"}, Opacity: 1},
		{Kind: geometry.KindRect, Box: geometry.Box{X: 8, Y: 1, W: 1, H: 1}, Fill: &geometry.Fill{Color: "FFFFFF"}, Opacity: 0.5},
	}}
	img := RenderImage(s, WithPNGScale(10))

	tests := []struct {
		name string
		x, y int
		want color.Color
	}{
		{"ellipse center", 20, 20, color.NRGBA{R: 255, A: 255}},
		{"ellipse bounding corner stays background", 11, 11, color.NRGBA{A: 255}},
		{"triangle right-angle corner", 51, 11, color.NRGBA{G: 255, A: 255}},
		{"triangle far corner stays background", 69, 29, color.NRGBA{A: 255}},
		{"half-transparent white over black", 85, 15, color.NRGBA{R: 128, G: 128, B: 128, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.At(tt.x, tt.y); !near(got, tt.want, 2) {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRenderImageDrawsImages(t *testing.T) {
	s := geometry.Slide{Primitives: []geometry.Primitive{
		{Kind: geometry.KindImage, Box: geometry.Box{X: 0, Y: 0, W: 2, H: 2}, Source: "blue", Opacity: 1},
	}}
	img := RenderImage(s, WithPNGScale(10), WithPNGImages(func(src string) (image.Image, bool) {
		if src == "blue" {
			return srcImage(src), true
		}
		return nil, false
	}))
	if got := img.At(10, 10); !near(got, color.NRGBA{B: 255, A: 255}, 2) {
		t.Errorf("image pixel = %v, want blue", got)
	}
	if got := img.At(50, 50); !near(got, color.White, 0) {
		t.Errorf("outside image = %v, want white", got)
	}
}

func srcImage(string) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+2], img.Pix[i+3] = 255, 255
	}
	return img
}

func TestCoverRect(t *testing.T) {
	tests := []struct {
		name       string
		src        image.Rectangle
		dstW, dstH float64
		want       image.Rectangle
	}{
		{"wide source", image.Rect(0, 0, 400, 100), 200, 100, image.Rect(100, 0, 300, 100)},
		{"tall source", image.Rect(0, 0, 100, 400), 100, 100, image.Rect(0, 150, 100, 250)},
		{"same aspect", image.Rect(0, 0, 160, 90), 16, 9, image.Rect(0, 0, 160, 90)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coverRect(tt.src, tt.dstW, tt.dstH); got != tt.want {
				t.Errorf("coverRect = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderJSON(t *testing.T) {
	p := testDeck()
	data, err := RenderJSON(resolveAll(t, p), WithJSONDeck(p), WithJSONTheme("Ocean Blue"))
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		Width        float64            `json:"width"`
		Theme        string             `json:"theme"`
		Presentation *deck.Presentation `json:"presentation"`
		Slides       []geometry.Slide   `json:"slides"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Width != geometry.Width || out.Theme != "Ocean Blue" {
		t.Errorf("header = %v %q", out.Width, out.Theme)
	}
	if len(out.Slides) != 3 || out.Presentation == nil || out.Presentation.Title != p.Title {
		t.Errorf("unexpected body: %d slides", len(out.Slides))
	}

	empty, err := RenderJSON(nil, WithJSONCompact())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(empty), `"slides":[]`) {
		t.Errorf("nil slides should encode as [] got %s", empty)
	}
}

func TestRenderMarkdown(t *testing.T) {
	p := testDeck()

	tests := []struct {
		name  string
		opts  []HandoutOption
		want  []string
		avoid []string
	}{
		{
			name:  "default",
			want:  []string{"# Ocean \\<Life\\> & More", "## 2. Zones", "- Twilight zone", "Content slide · twoColumn layout · Sunset Glow", "_3 slides_"},
			avoid: []string{"Welcome everyone"},
		},
		{
			name: "notes",
			opts: []HandoutOption{WithNotes()},
			want: []string{"> Welcome everyone"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := string(RenderMarkdown(p, tt.opts...))
			for _, w := range tt.want {
				if !strings.Contains(s, w) {
					t.Errorf("missing %q in\n%s", w, s)
				}
			}
			for _, a := range tt.avoid {
				if strings.Contains(s, a) {
					t.Errorf("unexpected %q", a)
				}
			}
		})
	}

	if got := string(RenderMarkdown(nil)); got != "# No Presentation Yet\n" {
		t.Errorf("nil deck = %q", got)
	}
}

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML(testDeck(), WithNotes())
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	for _, w := range []string{"<h1>Ocean &lt;Life&gt; &amp; More</h1>", "<li>Twilight zone</li>", "<blockquote>", "<title>Ocean &lt;Life&gt; &amp; More</title>"} {
		if !strings.Contains(s, w) {
			t.Errorf("missing %q", w)
		}
	}
	if strings.Contains(s, "<Life>") {
		t.Error("raw markup leaked into HTML")
	}
}

func TestRenderPDF(t *testing.T) {
	if !render.Available() {
		t.Skip("rsvg-convert not installed")
	}
	out, err := RenderPDF(resolveAll(t, testDeck()), WithPDFCounter())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Error("not a PDF")
	}
}
