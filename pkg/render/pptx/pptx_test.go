package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tabula "github.com/tsawler/tabula/pptx"

	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/geometry"
	"github.com/matzehuels/slidecraft/pkg/theme"
)

func sampleDeck() *deck.Presentation {
	return &deck.Presentation{
		ID:    "p1",
		Title: "Renewable Energy",
		Slides: []deck.Slide{
			{ID: "1", Type: deck.TypeTitle, Title: "Renewable Energy", Subtitle: "A short tour", ImageURL: "https://example.com/a.png"},
			{ID: "2", Type: deck.TypeContent, Title: "Sources", Content: []string{"Solar", "Wind", "Hydro", "Geothermal"}},
			{ID: "3", Type: deck.TypeContent, Title: "Why it matters", Content: []string{"Lower emissions across the grid", "Cheaper power over time"}},
			{ID: "4", Type: deck.TypeSection, Title: "Looking ahead"},
			{ID: "5", Type: deck.TypeContent, Title: "Roadmap", Content: []string{"Pilot", "Scale", "Operate"}},
		},
	}
}

func resolved(t *testing.T, p *deck.Presentation) []geometry.Slide {
	t.Helper()
	slides, err := geometry.DeckWithTheme(p, theme.At(0))
	if err != nil {
		t.Fatalf("DeckWithTheme: %v", err)
	}
	return slides
}

type stubImages struct {
	data []byte
	ct   string
	err  error
}

func (s stubImages) Fetch(context.Context, string) ([]byte, string, error) {
	return s.data, s.ct, s.err
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xAA
	}
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func writeDoc(t *testing.T, wr *Writer, slides []geometry.Slide) []byte {
	t.Helper()
	var buf bytes.Buffer
	doc := Document{
		Metadata: Metadata{Title: "Renewable Energy", Author: "Tester", Created: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		Theme:    theme.At(0),
		Slides:   slides,
	}
	if err := wr.Write(context.Background(), &buf, doc); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return buf.Bytes()
}

func files(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip: %v", err)
	}
	out := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		b, _ := io.ReadAll(rc)
		rc.Close()
		out[f.Name] = string(b)
	}
	return out
}

func TestWriteRequiredParts(t *testing.T) {
	got := files(t, writeDoc(t, &Writer{}, resolved(t, sampleDeck())))
	required := []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"docProps/core.xml",
		"docProps/app.xml",
		"ppt/presentation.xml",
		"ppt/_rels/presentation.xml.rels",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/theme/theme1.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/slide5.xml",
		"ppt/slides/_rels/slide5.xml.rels",
	}
	for _, name := range required {
		if _, ok := got[name]; !ok {
			t.Errorf("missing part %s", name)
		}
	}
	if _, ok := got["ppt/slides/slide6.xml"]; ok {
		t.Error("unexpected sixth slide")
	}
}

func TestWriteWellFormedXML(t *testing.T) {
	got := files(t, writeDoc(t, &Writer{}, resolved(t, sampleDeck())))
	for name, content := range got {
		if !strings.HasSuffix(name, ".xml") && !strings.HasSuffix(name, ".rels") {
			continue
		}
		dec := xml.NewDecoder(strings.NewReader(content))
		for {
			_, err := dec.Token()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				t.Errorf("%s: %v", name, err)
				break
			}
		}
	}
}

func TestWriteReadBack(t *testing.T) {
	p := sampleDeck()
	data := writeDoc(t, &Writer{}, resolved(t, p))
	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := tabula.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	if r.SlideCount() != len(p.Slides) {
		t.Fatalf("SlideCount = %d, want %d", r.SlideCount(), len(p.Slides))
	}
	for i, want := range p.Slides {
		s, err := r.Slide(i)
		if err != nil {
			t.Fatal(err)
		}
		if s.Title != want.Title {
			t.Errorf("slide %d title = %q, want %q", i+1, s.Title, want.Title)
		}
	}
	if meta := r.Metadata(); meta.Title != "Renewable Energy" || meta.Author != "Tester" {
		t.Errorf("metadata = %+v", meta)
	}
}

func TestWriteBullets(t *testing.T) {
	data := writeDoc(t, &Writer{}, resolved(t, sampleDeck()))
	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := tabula.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	// Slide 2 uses the two-column layout, whose items carry bullet markers.
	s, err := r.Slide(1)
	if err != nil {
		t.Fatal(err)
	}
	var bullets []string
	for _, b := range s.Content {
		for _, para := range b.Paragraphs {
			if para.IsBullet {
				bullets = append(bullets, para.Text)
			}
		}
	}
	if len(bullets) != 4 {
		t.Fatalf("bullets = %q, want 4 items", bullets)
	}
	for i, want := range []string{"Solar", "Wind", "Hydro", "Geothermal"} {
		if !contains(bullets, want) {
			t.Errorf("missing bullet %d %q in %q", i, want, bullets)
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestWriteEmbedsImages(t *testing.T) {
	wr := &Writer{Images: stubImages{data: pngBytes(t, 40, 10), ct: "image/png"}}
	got := files(t, writeDoc(t, wr, resolved(t, sampleDeck())))

	if _, ok := got["ppt/media/image1.png"]; !ok {
		t.Fatal("image not embedded")
	}
	slide := got["ppt/slides/slide1.xml"]
	if !strings.Contains(slide, "<p:pic>") || !strings.Contains(slide, `r:embed="rId2"`) {
		t.Error("slide 1 lacks picture reference")
	}
	if !strings.Contains(slide, "<a:srcRect") {
		t.Error("wide image should be cropped to cover the slide")
	}
	if !strings.Contains(got["ppt/slides/_rels/slide1.xml.rels"], "../media/image1.png") {
		t.Error("slide rels lack media target")
	}
	if !strings.Contains(got["[Content_Types].xml"], `Extension="png"`) {
		t.Error("content types lack png default")
	}
}

func TestWriteSkipsFailedImages(t *testing.T) {
	wr := &Writer{Images: stubImages{err: errors.New("boom")}}
	got := files(t, writeDoc(t, wr, resolved(t, sampleDeck())))
	if strings.Contains(got["ppt/slides/slide1.xml"], "<p:pic>") {
		t.Error("failed image should be skipped")
	}
	for name := range got {
		if strings.HasPrefix(name, "ppt/media/") {
			t.Errorf("unexpected media part %s", name)
		}
	}
}

func TestWriteBackgroundAndMaster(t *testing.T) {
	got := files(t, writeDoc(t, &Writer{}, resolved(t, sampleDeck())))
	if !strings.Contains(got["ppt/slides/slide1.xml"], "<p:bg><p:bgPr><a:gradFill") {
		t.Error("title slide should carry its gradient as the slide background")
	}
	master := got["ppt/slideMasters/slideMaster1.xml"]
	if !strings.Contains(master, `type="slidenum"`) {
		t.Error("master lacks slide number field")
	}
	if !strings.Contains(master, theme.At(0).Secondary) {
		t.Error("footer rule should use the theme's secondary color")
	}
	if !strings.Contains(got["ppt/presentation.xml"], `<p:sldSz cx="12192000" cy="6858000"/>`) {
		t.Error("slide size is not widescreen")
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := (&Writer{}).Write(context.Background(), &buf, Document{})
	if err == nil {
		t.Fatal("expected error for empty document")
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written on failure")
	}
}

func TestWriteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	err := (&Writer{}).Write(ctx, &buf, Document{Slides: resolved(t, sampleDeck())})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestCoverCrop(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		box  geometry.Box
		want crop
	}{
		{"same aspect", 160, 90, geometry.Full, crop{}},
		{"wider", 200, 50, geometry.Box{W: 2, H: 1}, crop{l: 25000, r: 25000}},
		{"taller", 50, 100, geometry.Box{W: 1, H: 1}, crop{t: 25000, b: 25000}},
		{"degenerate", 0, 10, geometry.Full, crop{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coverCrop(tt.w, tt.h, tt.box); got != tt.want {
				t.Errorf("coverCrop = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUnits(t *testing.T) {
	if got := emu(geometry.Width); got != SlideCX {
		t.Errorf("emu(Width) = %d, want %d", got, SlideCX)
	}
	if got := emu(geometry.Height); got != SlideCY {
		t.Errorf("emu(Height) = %d, want %d", got, SlideCY)
	}
	if got := fontSize(18); got != 2400 {
		t.Errorf("fontSize(18) = %d, want 2400", got)
	}
}

func TestMediaType(t *testing.T) {
	png := pngBytes(t, 2, 2)
	tests := []struct {
		name     string
		data     []byte
		declared string
		want     string
	}{
		{"declared", nil, "image/jpeg", "jpeg"},
		{"with params", nil, "image/png; charset=binary", "png"},
		{"sniffed", png, "application/octet-stream", "png"},
		{"unknown", []byte("nope"), "text/plain", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ext, _ := mediaType(tt.data, tt.declared); ext != tt.want {
				t.Errorf("ext = %q, want %q", ext, tt.want)
			}
		})
	}
}
