package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slidecraft/pkg/colors"
	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/errors"
	"github.com/matzehuels/slidecraft/pkg/geometry"
	"github.com/matzehuels/slidecraft/pkg/pipeline"
	"github.com/matzehuels/slidecraft/pkg/preview"
)

// Preview styles
var (
	previewHeaderStyle = lipgloss.NewStyle().Foreground(colorGray)
	previewThumbStyle  = lipgloss.NewStyle().Foreground(colorDim).Padding(0, 1)
	previewErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	previewHelp        = "←/→ navigate  1-9 jump  g/G first/last  q quit"
)

const (
	defaultCardWidth = 64
	minCardWidth     = 32
)

// previewCommand creates the preview command, an interactive slide viewer.
func (c *CLI) previewCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "preview <deck.json>",
		Short: "Browse a deck in the terminal",
		Long: `Browse a deck in the terminal with a thumbnail strip.

With --watch the deck is reloaded whenever the file changes; the current
slide is kept when it still exists.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0], watch)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload when the file changes")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, path string, watch bool) error {
	p, err := pipeline.Load(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prog := tea.NewProgram(newPreviewModel(p), tea.WithAltScreen(), tea.WithContext(ctx))
	if watch {
		go func() {
			err := watchFile(ctx, path, loggerFromContext(ctx), func() {
				p, err := pipeline.Load(path)
				prog.Send(reloadMsg{deck: p, err: err})
			})
			if err != nil && ctx.Err() == nil {
				prog.Send(reloadMsg{err: err})
			}
		}()
	}

	_, err = prog.Run()
	return err
}

// =============================================================================
// previewModel - Interactive slide viewer
// =============================================================================

// reloadMsg carries a freshly loaded deck, or the reason it failed to load.
type reloadMsg struct {
	deck *deck.Presentation
	err  error
}

type previewModel struct {
	nav   *preview.Navigator
	title string
	width int
	err   error
}

func newPreviewModel(p *deck.Presentation) previewModel {
	m := previewModel{nav: preview.New(p), width: defaultCardWidth + 4}
	if p != nil {
		m.title = p.Title
	}
	return m
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h", "p", "up", "k":
			m.nav.Prev()
		case "right", "l", "n", "down", "j", " ":
			m.nav.Next()
		case "home", "g":
			m.nav.First()
		case "end", "G":
			m.nav.Last()
		default:
			if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
				m.nav.Select(int(key[0] - '1'))
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case reloadMsg:
		m.err = msg.err
		if msg.err == nil {
			m.nav.SetPresentation(msg.deck)
			m.title = msg.deck.Title
		}
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder

	frame, err := m.nav.Frame()
	if err != nil {
		b.WriteString(previewErrorStyle.Render(errors.UserMessage(err)))
		return b.String()
	}
	if frame.Empty {
		b.WriteString(StyleDim.Render(frame.Message))
		b.WriteString("\n\n")
		b.WriteString(StyleDim.Render(previewHelp))
		return b.String()
	}

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("  ")
	b.WriteString(previewHeaderStyle.Render(frame.Header))
	b.WriteString("\n\n")
	b.WriteString(renderCard(frame.Slide, m.cardWidth()))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(frame.Counter))
	b.WriteString("\n\n")
	if len(frame.Thumbnails) > 0 {
		b.WriteString(renderThumbnails(frame.Thumbnails, m.width))
		b.WriteString("\n\n")
	}
	if m.err != nil {
		b.WriteString(previewErrorStyle.Render("reload failed: " + errors.UserMessage(m.err)))
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render(previewHelp))
	return b.String()
}

func (m previewModel) cardWidth() int {
	w := min(m.width-4, defaultCardWidth)
	return max(w, minCardWidth)
}

// renderCard draws the text primitives of s inside a box in the slide's
// theme colors. Title and section slides get the filled look of their
// gradient background.
func renderCard(s geometry.Slide, width int) string {
	primary := lipgloss.Color(colors.CSS(s.Theme.Primary))
	text := lipgloss.Color(colors.CSS(s.Theme.Text))
	card := lipgloss.NewStyle().
		Width(width).
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primary)
	title := lipgloss.NewStyle().Bold(true).Foreground(primary)
	body := lipgloss.NewStyle().Foreground(text)
	if s.Type != deck.TypeContent {
		fill := lipgloss.Color(colors.CSS(colors.Contrast(s.Theme.Primary)))
		card = card.Background(primary).Foreground(fill)
		title = title.Foreground(fill).Background(primary)
		body = body.Foreground(fill).Background(primary)
	}

	var lines []string
	for _, p := range s.Primitives {
		if p.Text == nil || strings.TrimSpace(p.Text.Value) == "" {
			continue
		}
		switch p.Role {
		case geometry.RoleTitle:
			lines = append(lines, title.Render(p.Text.Value), "")
		case geometry.RoleSubtitle:
			lines = append(lines, body.Render(p.Text.Value))
		case geometry.RoleBody:
			value := p.Text.Value
			if p.Text.Bullet != "" {
				value = p.Text.Bullet + " " + value
			}
			lines = append(lines, body.Render(value))
		}
	}
	return card.Render(strings.TrimRight(strings.Join(lines, "\n"), "\n"))
}

// renderThumbnails lays the strip out as "1 Title", "2 Content", ... and
// wraps it to width.
func renderThumbnails(thumbs []preview.Thumbnail, width int) string {
	var rows []string
	var row []string
	used := 0
	for _, t := range thumbs {
		label := fmt.Sprintf("%d %s", t.Ordinal, t.Badge)
		style := previewThumbStyle
		if t.Current {
			style = style.Foreground(colorCyan).Bold(true)
			label = "▸" + label
		}
		cell := style.Render(label)
		if cw := lipgloss.Width(cell); used+cw > width && len(row) > 0 {
			rows = append(rows, strings.Join(row, ""))
			row, used = nil, 0
		}
		row = append(row, cell)
		used += lipgloss.Width(cell)
	}
	if len(row) > 0 {
		rows = append(rows, strings.Join(row, ""))
	}
	return strings.Join(rows, "\n")
}
