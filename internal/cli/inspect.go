package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/tsawler/tabula/pptx"

	"github.com/matzehuels/slidecraft/pkg/errors"
)

type inspectOpts struct {
	markdown bool
	notes    bool
}

// inspectCommand creates the inspect command, which reads a .pptx back.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect <deck.pptx>",
		Short: "Show the slides and metadata of a PowerPoint document",
		Example: `  slidecraft inspect "Coral Reefs_2026-03-01.pptx"
  slidecraft inspect talk.pptx --markdown > talk.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := pptx.Open(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "open %s", args[0])
			}
			defer r.Close()

			out := cmd.OutOrStdout()
			if opts.markdown {
				md, err := r.Markdown()
				if err != nil {
					return err
				}
				fmt.Fprint(out, md)
				return nil
			}
			summary, err := inspectSummary(r, opts.notes)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "print the document as Markdown")
	cmd.Flags().BoolVar(&opts.notes, "notes", false, "include speaker notes")

	return cmd
}

// inspectSummary renders the metadata block and a table of slides.
func inspectSummary(r *pptx.Reader, notes bool) (string, error) {
	meta := r.Metadata()
	var b strings.Builder
	b.WriteString(StyleTitle.Render(meta.Title) + "\n")
	for _, kv := range [][2]string{
		{"Author", meta.Author},
		{"Subject", meta.Subject},
		{"Application", meta.Creator},
		{"Slides", strconv.Itoa(r.SlideCount())},
	} {
		if kv[1] != "" {
			b.WriteString(styleKey.Render(kv[0]) + " " + StyleValue.Render(kv[1]) + "\n")
		}
	}

	headers := []string{"#", "Title", "Text"}
	if notes {
		headers = append(headers, "Notes")
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(headers...)
	for i := range r.SlideCount() {
		s, err := r.Slide(i)
		if err != nil {
			return "", err
		}
		row := []string{strconv.Itoa(i + 1), s.Title, slideText(s)}
		if notes {
			row = append(row, s.Notes)
		}
		t.Row(row...)
	}
	b.WriteString(t.Render())
	return b.String(), nil
}

// slideText joins the non-title text blocks of s on one line.
func slideText(s *pptx.Slide) string {
	var parts []string
	for _, tb := range s.Content {
		if tb.IsTitle {
			continue
		}
		if text := strings.Join(strings.Fields(tb.Text), " "); text != "" {
			parts = append(parts, text)
		}
	}
	const maxText = 60
	text := strings.Join(parts, " · ")
	if r := []rune(text); len(r) > maxText {
		text = string(r[:maxText-1]) + "…"
	}
	return text
}
