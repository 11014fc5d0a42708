package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slidecraft/pkg/errors"
	"github.com/matzehuels/slidecraft/pkg/export"
	"github.com/matzehuels/slidecraft/pkg/httputil"
	"github.com/matzehuels/slidecraft/pkg/pipeline"
	"github.com/matzehuels/slidecraft/pkg/render/pptx"
)

type exportOpts struct {
	output   string
	theme    string
	random   bool
	noImages bool
	noCache  bool
}

// exportCommand creates the export command that writes a .pptx document.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export <deck.json>",
		Short: "Export a deck as a PowerPoint document",
		Long: `Export a deck as a .pptx document named "{title}_{date}.pptx".

The whole document uses one theme: --theme names it, --random draws one, and
otherwise the deck's own theme or the first catalog theme applies. Defaults
come from the [export] section of the config file.`,
		Example: `  slidecraft export deck.json
  slidecraft export deck.json --theme "Forest Green" -o dist
  slidecraft export deck.json --random`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.theme != "" && opts.random {
				return errors.New(errors.ErrCodeInvalidInput, "--theme and --random are mutually exclusive")
			}
			return c.runExport(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default from config)")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "theme for the whole document")
	cmd.Flags().BoolVar(&opts.random, "random", false, "pick a random theme")
	cmd.Flags().BoolVar(&opts.noImages, "no-images", false, "skip slide images")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not cache downloaded images")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, input string, opts exportOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	p, err := pipeline.Load(input)
	if err != nil {
		return err
	}

	dir := opts.output
	if dir == "" {
		dir = cfg.Export.Dir
	}
	var picker export.ThemePicker = export.FixedPicker{Name: opts.theme}
	switch {
	case opts.random:
		picker = export.RandomPicker{}
	case opts.theme == "" && cfg.Export.RandomTheme:
		picker = export.RandomPicker{}
	case opts.theme == "" && cfg.Export.Theme != "":
		picker = export.FixedPicker{Name: cfg.Export.Theme}
	}

	writer := &pptx.Writer{Logger: c.Logger}
	if !opts.noImages {
		cc, err := newCache(opts.noCache)
		if err != nil {
			return err
		}
		defer cc.Close()
		writer.Images = &httputil.Fetcher{Client: httputil.NewClient(0), Cache: cc, Logger: c.Logger}
	}

	exp := export.New(
		export.WithWriter(writer),
		export.WithThemes(picker),
		export.WithSaver(export.FileSaver{Dir: dir}),
		export.WithNotifier(export.LogNotifier{Logger: c.Logger}),
		export.WithLogger(c.Logger),
	)

	sp := newSpinner(ctx, fmt.Sprintf("Exporting %s...", p.Title))
	sp.Start()
	res, err := exp.Export(ctx, p)
	if err != nil {
		sp.StopWithError(errors.UserMessage(err))
		return err
	}
	sp.StopWithSuccess(fmt.Sprintf("Exported %d slides with %s", res.Slides, res.Theme.Name))
	printFile(res.Path)
	printDetail("%s", humanBytes(res.Size))
	return nil
}

// humanBytes formats a byte count as B, KB or MB.
func humanBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
