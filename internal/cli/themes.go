package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slidecraft/pkg/colors"
	"github.com/matzehuels/slidecraft/pkg/theme"
)

// themesCommand lists the theme catalog with color swatches.
func (c *CLI) themesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the available themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), themesTable(theme.All()))
			return nil
		},
	}
}

func themesTable(themes []theme.Theme) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Theme", "Primary", "Secondary", "Accent").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for i, th := range themes {
		t.Row(fmt.Sprint(i), th.Name, swatch(th.Primary), swatch(th.Secondary), swatch(th.Accent))
	}
	return t.Render()
}

// swatch renders "██ #1E40AF" in the color itself.
func swatch(hex string) string {
	css := colors.CSS(hex)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(css)).Render("██") + " " + hex
}
