package outline

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/slidecraft/pkg/deck"
)

func structured() *deck.Presentation {
	return &deck.Presentation{
		Title: "Field Guide",
		Slides: []deck.Slide{
			{Type: deck.TypeTitle, Title: "Field Guide"},
			{Type: deck.TypeContent, Title: "Intro", Content: []string{"a", "b"}},
			{Type: deck.TypeSection, Title: "Birds"},
			{Type: deck.TypeContent, Title: "Owls"},
			{Type: deck.TypeContent, Title: "Hawks"},
			{Type: deck.TypeSection, Title: "Insects"},
			{Type: deck.TypeContent, Title: "Bees"},
		},
	}
}

func TestEdges(t *testing.T) {
	want := []Edge{
		{"deck", "s1"},
		{"deck", "s2"},
		{"deck", "s3"},
		{"s3", "s4"},
		{"s3", "s5"},
		{"deck", "s6"},
		{"s6", "s7"},
	}
	if got := Edges(structured()); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges = %v, want %v", got, want)
	}
}

func TestToDOT(t *testing.T) {
	tests := []struct {
		name     string
		detailed bool
		want     []string
	}{
		{"basic", false, []string{"digraph G", `"deck" [label="Field Guide"`, `"s3" -> "s4"`, `label="4. Owls"`}},
		{"detailed", true, []string{`2. Intro\nContent · twoColumn · 2 bullets`, `3. Birds\nSection · gradient`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dot := ToDOT(structured(), Options{Detailed: tt.detailed})
			for _, w := range tt.want {
				if !strings.Contains(dot, w) {
					t.Errorf("missing %q in\n%s", w, dot)
				}
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(structured(), Options{}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Error("viewBox not normalized")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`
	if got != want {
		t.Errorf("got %s", got)
	}
}
