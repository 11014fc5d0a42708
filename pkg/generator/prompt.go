package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/slidecraft/pkg/deck"
)

const slideSchema = `Each slide is an object {"id": string, "type": "title"|"content"|"section", "title": string, "subtitle"?: string, "content"?: [string]}.`

func generateSystemPrompt(req GenerateRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You design presentations. Write a %s deck of exactly %d slides.\n\n", req.Style, req.SlideCount)
	b.WriteString(`Structure:
- Slide 1 is a title slide with a title and a one sentence subtitle.
- Use one to three section slides with short titles of two to four words to break up major topics.
- Every other slide is a content slide with three to six bullets.
- Close with a conclusion or call to action.

Bullets:
- Each bullet has 5 to 12 words and never more than 15.
- Prefer specific facts, numbers and actions over generic statements.
- Keep bullets within a slide grammatically parallel.

`)
	b.WriteString("Answer with one JSON object {\"title\": string, \"slides\": [slide]} and nothing else. ")
	b.WriteString(slideSchema)
	return b.String()
}

func updateSystemPrompt(req UpdateRequest, current *deck.Presentation) string {
	slides, _ := json.MarshalIndent(current.Slides, "", "  ")
	var b strings.Builder
	b.WriteString("You edit presentations. Apply the user's request to the deck below.\n\nCurrent slides:\n")
	b.Write(slides)
	b.WriteString("\n\n")
	if req.SlideIndex != nil {
		fmt.Fprintf(&b, "Focus on the slide at index %d.\n", *req.SlideIndex)
	}
	fmt.Fprintf(&b, "Operation: %s.\n", req.Operation)
	b.WriteString(`Rules:
- Keep existing slide ids. New slides get new ids.
- Change only what the request asks for.
- Bullets stay between 5 and 12 words.

`)
	b.WriteString("Answer with one JSON object {\"slides\": [slide]} holding every slide, changed or not, and nothing else. ")
	b.WriteString(slideSchema)
	return b.String()
}

func regeneratePrompt(p *deck.Presentation, i int) string {
	var others []string
	for j, s := range p.Slides {
		if j != i {
			others = append(others, s.Title)
		}
	}
	s := p.Slides[i]
	return fmt.Sprintf("Regenerate slide %q of a presentation about %q. Other slides: %s. Make it more specific and engaging and keep its type (%s).",
		s.Title, p.Title, strings.Join(others, ", "), s.Type)
}
