package generator

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/matzehuels/slidecraft/pkg/deck"
)

// DefaultTopic is used when no topic can be found in the prompt.
const DefaultTopic = "Your Topic"

// UpdatedSuffix marks slides touched by a fallback update.
const UpdatedSuffix = " (Updated)"

var topicPattern = regexp.MustCompile(`(?i)about\s+([^.?!]+)`)

// Topic extracts the subject of a prompt: the text after "about" up to the
// first sentence end, title-cased.
func Topic(prompt string) string {
	m := topicPattern.FindStringSubmatch(prompt)
	if m == nil {
		return DefaultTopic
	}
	t := strings.TrimSpace(m[1])
	if t == "" {
		return DefaultTopic
	}
	return cases.Title(language.English).String(t)
}

// Fallback generates a fixed nine-slide deck without any remote call.
// It ignores the slide count and style of the request.
type Fallback struct {
	// Now is the clock; nil uses time.Now.
	Now func() time.Time
}

func (f Fallback) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

// Generate implements [Generator].
func (f Fallback) Generate(_ context.Context, req GenerateRequest) (*deck.Presentation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	topic := Topic(req.Prompt)
	p := deck.New(topic, templateSlides(topic), f.now())
	if req.Images() {
		p.Slides[0].ImageURL = StockImage(topic)
	}
	attachImages(p, req.Images(), nil)
	return p, nil
}

// Update implements [Generator]. Removing deletes the targeted slide;
// every other operation marks it with [UpdatedSuffix]. Without an index
// the first slide is targeted.
func (f Fallback) Update(_ context.Context, req UpdateRequest, current *deck.Presentation) (*deck.Presentation, error) {
	if err := deck.Validate(current); err != nil {
		return nil, err
	}
	if err := req.Validate(current); err != nil {
		return nil, err
	}
	p := current.Clone()
	i := 0
	if req.SlideIndex != nil {
		i = *req.SlideIndex
	}
	if req.Operation == OpRemove && p.Len() > 1 {
		p.Slides = append(p.Slides[:i], p.Slides[i+1:]...)
	} else if !strings.HasSuffix(p.Slides[i].Title, UpdatedSuffix) {
		p.Slides[i].Title += UpdatedSuffix
	}
	p.UpdatedAt = f.now()
	return p, nil
}

func templateSlides(topic string) []deck.Slide {
	content := func(id, title string, items ...string) deck.Slide {
		return deck.Slide{ID: id, Type: deck.TypeContent, Title: title, Content: items}
	}
	return []deck.Slide{
		{ID: "slide-1", Type: deck.TypeTitle, Title: topic, Subtitle: "A Comprehensive Overview"},
		content("slide-2", "Introduction",
			fmt.Sprintf("%s is reshaping how the industry works", topic),
			"Core principles and the foundations behind them",
			"Rapid growth and widening adoption",
			"Key stakeholders and market dynamics",
		),
		{ID: "slide-3", Type: deck.TypeSection, Title: "Core Concepts", ImageURL: StockImage("abstract,technology")},
		content("slide-4", "Fundamental Components",
			"Primary building blocks and overall architecture",
			"Integration points and their dependencies",
			"Technical requirements and specifications to meet",
			"Scalability and performance considerations",
			"Best practices and relevant industry standards",
		),
		content("slide-5", "Key Benefits",
			"Efficiency gains of up to 40 percent",
			"Lower costs through targeted automation",
			"Better user experience and higher satisfaction",
			"A durable competitive advantage in the market",
			"Measurable return within six to twelve months",
		),
		{ID: "slide-6", Type: deck.TypeSection, Title: "Implementation", ImageURL: StockImage("strategy,planning")},
		content("slide-7", "Practical Applications",
			"Real-world use cases across many industries",
			"Deployment strategies for large enterprises",
			"Implementation approaches for small businesses",
			"Integration with the systems already in place",
		),
		content("slide-8", "Challenges & Solutions",
			"Common obstacles and how to overcome them",
			"Resource allocation and realistic budgeting",
			"Change management and training for the team",
			"Strategies that keep risks under control",
		),
		content("slide-9", "Next Steps",
			"Run a thorough assessment of current needs",
			"Draft a phased roadmap for the rollout",
			"Allocate the budget and people required",
			"Start a pilot program within thirty days",
			"Track success against clear, agreed KPIs",
		),
	}
}
