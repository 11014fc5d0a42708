package geometry_test

import (
	"fmt"

	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/geometry"
)

func ExampleResolveAt() {
	p := &deck.Presentation{
		Title: "Roadmap",
		Slides: []deck.Slide{
			{ID: "a", Type: deck.TypeTitle, Title: "Roadmap", Subtitle: "2027"},
			{ID: "b", Type: deck.TypeContent, Title: "Themes", Content: []string{"Speed", "Quality"}},
		},
	}
	s, _ := geometry.ResolveAt(p, 1)
	fmt.Println(s.Variant, s.Theme.Name, s.Count(geometry.RoleBody))
	// Output: twoColumn Sunset Glow 2
}
