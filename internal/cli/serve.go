package cli

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/pkg/browser"
	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slidecraft/pkg/config"
	"github.com/matzehuels/slidecraft/pkg/export"
	"github.com/matzehuels/slidecraft/pkg/generator"
	"github.com/matzehuels/slidecraft/pkg/server"
	"github.com/matzehuels/slidecraft/pkg/session"
)

type serveOpts struct {
	addr    string
	open    bool
	noQR    bool
	noCache bool
}

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the SlideCraft HTTP API",
		Long: `Run the HTTP API for generating, editing, previewing and exporting decks.

Sessions live in the backend configured under [session]; the listen
address comes from --addr, SLIDECRAFT_ADDR or the config file.`,
		Example: `  slidecraft serve
  slidecraft serve --addr :9000 --open
  slidecraft serve --no-qr`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&opts.open, "open", false, "open the API in a browser")
	cmd.Flags().BoolVar(&opts.noQR, "no-qr", false, "do not print a QR code of the URL")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	addr := opts.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	store, err := openStore(ctx, cfg.Session)
	if err != nil {
		return fmt.Errorf("open %s session store: %w", cfg.Session.Backend, err)
	}
	defer store.Close()

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(
		server.WithSessions(session.NewManager(store, cfg.Session.TTL)),
		server.WithGenerator(c.newGenerator(cfg)),
		server.WithExporter(export.New(export.WithLogger(c.Logger))),
		server.WithRunner(runner),
		server.WithLogger(c.Logger),
	)

	return srv.ListenAndServe(ctx, addr, func(a net.Addr) {
		url := serverURL(a)
		printSuccess("Serving on %s", StyleLink.Render(url))
		printKeyValue("sessions", cfg.Session.Backend)
		printKeyValue("generator", generatorMode(cfg))
		if cfg.Session.Backend == config.BackendMemory {
			printWarning("Sessions are kept in memory and lost on exit")
		}
		if !opts.noQR {
			if code, err := terminalQR(url); err == nil {
				fmt.Print(code)
			} else {
				c.Logger.Warn("qr code", "err", err)
			}
		}
		if opts.open {
			if err := browser.OpenURL(url + "/healthz"); err != nil {
				c.Logger.Warn("open browser", "err", err)
			}
		}
	})
}

func generatorMode(cfg *config.Config) string {
	if cfg.Generator.APIKey() == "" {
		return "offline templates"
	}
	if cfg.Generator.Model == "" {
		return generator.DefaultModel
	}
	return cfg.Generator.Model
}

// serverURL turns a bound address into a URL, replacing the unspecified
// host with localhost.
func serverURL(a net.Addr) string {
	host, port, err := net.SplitHostPort(a.String())
	if err != nil {
		return "http://" + a.String()
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// terminalQR renders payload with half-block characters, two modules per
// character cell.
func terminalQR(payload string) (string, error) {
	qr, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return "", err
	}
	bits := qr.Bitmap()
	var b strings.Builder
	for y := 0; y < len(bits); y += 2 {
		for x := range bits[y] {
			top := bits[y][x]
			bottom := y+1 < len(bits) && bits[y+1][x]
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}
