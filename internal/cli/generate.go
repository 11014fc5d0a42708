package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/errors"
	"github.com/matzehuels/slidecraft/pkg/generator"
)

// defaultDeckFile is where generate writes when -o is not given.
const defaultDeckFile = "deck.json"

type generateOpts struct {
	output   string
	count    int
	style    string
	noImages bool
}

// generateCommand creates the generate command, which builds a deck from a prompt.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{output: defaultDeckFile, count: generator.DefaultSlideCount}

	styles := make([]string, len(generator.Styles))
	for i, s := range generator.Styles {
		styles[i] = string(s)
	}

	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate a deck from a prompt",
		Long: `Generate a deck from a prompt and save it as JSON.

With an API key configured the deck comes from the model; without one, or
when the model's quota is exhausted, a template deck about the prompt's
topic is built locally.`,
		Example: `  slidecraft generate "A talk about coral reefs"
  slidecraft generate "Quarterly results" --count 6 --style minimal -o q3.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output deck file")
	cmd.Flags().IntVarP(&opts.count, "count", "n", opts.count, fmt.Sprintf("number of slides (%d-%d)", deck.MinSlides, deck.MaxSlides))
	cmd.Flags().StringVar(&opts.style, "style", string(generator.StyleProfessional), "tone: "+strings.Join(styles, ", "))
	cmd.Flags().BoolVar(&opts.noImages, "no-images", false, "do not attach stock images")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, prompt string, opts generateOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	images := !opts.noImages
	req := generator.GenerateRequest{
		Prompt:        prompt,
		SlideCount:    opts.count,
		Style:         generator.Style(opts.style),
		IncludeImages: &images,
	}
	if err := req.Validate(); err != nil {
		return err
	}

	gen := c.newGenerator(cfg)
	prog := newProgress(c.Logger)
	sp := newSpinner(ctx, "Generating slides...")
	sp.Start()
	p, err := gen.Generate(ctx, req)
	if err != nil {
		sp.StopWithError(errors.UserMessage(err))
		return err
	}
	sp.Stop()
	prog.done(fmt.Sprintf("Generated %d slides", p.Len()))

	if err := deck.Save(opts.output, p); err != nil {
		return err
	}
	printSuccess("Created %s with %d slides", StyleValue.Render(p.Title), p.Len())
	printFile(opts.output)
	printNextStep("Preview it", "slidecraft preview "+opts.output)
	return nil
}

type editOpts struct {
	slide     int
	operation string
	output    string
}

// editCommand creates the edit command, which applies a prompt to a saved deck.
func (c *CLI) editCommand() *cobra.Command {
	var opts editOpts

	ops := make([]string, len(generator.Operations))
	for i, op := range generator.Operations {
		ops[i] = string(op)
	}

	cmd := &cobra.Command{
		Use:   "edit <deck.json> <prompt>",
		Short: "Change a saved deck with a prompt",
		Example: `  slidecraft edit deck.json "Make it more concise"
  slidecraft edit deck.json "Remove this one" --slide 3 --op remove
  slidecraft edit deck.json "Fresh take" --slide 2 --op regenerate`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0], strings.Join(args[1:], " "), opts)
		},
	}

	cmd.Flags().IntVar(&opts.slide, "slide", 0, "1-based slide number to change (default: whole deck)")
	cmd.Flags().StringVar(&opts.operation, "op", string(generator.OpEdit), "operation: "+strings.Join(ops, ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the result here instead of in place")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, path, prompt string, opts editOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	current, err := deck.Load(path)
	if err != nil {
		return err
	}
	req := generator.UpdateRequest{Prompt: prompt, Operation: generator.Operation(opts.operation)}
	if opts.slide != 0 {
		i := opts.slide - 1
		req.SlideIndex = &i
	}
	if err := req.Validate(current); err != nil {
		return err
	}

	gen := c.newGenerator(cfg)
	sp := newSpinner(ctx, "Updating slides...")
	sp.Start()
	var updated *deck.Presentation
	if req.Operation == generator.OpRegenerate && req.SlideIndex != nil {
		var s deck.Slide
		s, err = generator.Regenerate(ctx, gen, current, *req.SlideIndex)
		if err == nil {
			updated = current.Clone()
			updated.Slides[*req.SlideIndex] = s
		}
	} else {
		updated, err = gen.Update(ctx, req, current)
	}
	if err != nil {
		sp.StopWithError(errors.UserMessage(err))
		return err
	}
	sp.Stop()

	out := opts.output
	if out == "" {
		out = path
	}
	if err := deck.Save(out, updated); err != nil {
		return err
	}
	printSuccess("Updated %s (%d slides)", StyleValue.Render(updated.Title), updated.Len())
	printFile(out)
	return nil
}
