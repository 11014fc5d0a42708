package pipeline

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidecraft/pkg/cache"
	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/errors"
	"github.com/matzehuels/slidecraft/pkg/geometry"
	"github.com/matzehuels/slidecraft/pkg/observability"
	"github.com/matzehuels/slidecraft/pkg/render/pptx"
	"github.com/matzehuels/slidecraft/pkg/render/sink"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner keeps no per-run state, so multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// Images loads slide images for raster output. Nil renders without them.
	Images pptx.ImageSource
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute resolves the deck and renders every requested artifact.
func (r *Runner) Execute(ctx context.Context, p *deck.Presentation, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := deck.Validate(p); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats, p.Len())
	result, err := r.execute(ctx, p, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return result, err
}

func (r *Runner) execute(ctx context.Context, p *deck.Presentation, opts Options) (*Result, error) {
	result := &Result{DeckHash: DeckHash(p)}

	resolveStart := time.Now()
	slides, err := Resolve(p, opts.Theme)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	result.Stats.Slides = len(slides)
	result.Stats.ResolveTime = time.Since(resolveStart)
	opts.Logger.Debug("resolved slides", "slides", len(slides), "duration", result.Stats.ResolveTime)

	renderStart := time.Now()
	rend := &renderer{p: p, slides: slides, opts: opts}
	if r.Images != nil && slices.Contains(opts.Formats, FormatPNG) {
		rend.images = imageLoader(ctx, r.Images)
	}
	for _, j := range jobs(opts, len(slides)) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, hit, err := r.renderCached(ctx, rend, result.DeckHash, j)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", artifactName(j.format, j.slide))
		}
		if hit {
			result.CacheInfo.Hits++
		} else {
			result.CacheInfo.Misses++
		}
		result.Artifacts = append(result.Artifacts, Artifact{
			Name:   artifactName(j.format, j.slide),
			Format: j.format,
			Slide:  j.slide,
			Data:   data,
		})
	}
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"artifacts", len(result.Artifacts),
		"cached", result.CacheInfo.Hits,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// renderCached returns the cached artifact or renders and stores it.
func (r *Runner) renderCached(ctx context.Context, rend *renderer, deckHash string, j job) ([]byte, bool, error) {
	key := r.Keyer.ArtifactKey(deckHash, rend.opts.ArtifactKeyOpts(j.format, j.slide))
	if !rend.opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			return data, true, nil
		}
	}
	data, err := rend.render(ctx, j)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err != nil {
		rend.opts.Logger.Warn("cache write failed", "key", key, "err", err)
	}
	return data, false, nil
}

// RenderSlide renders one slide as SVG with the position rule. It skips
// the cache; previews are cheap and change on every edit.
func RenderSlide(p *deck.Presentation, i int, opts ...Option) ([]byte, error) {
	s, err := geometry.ResolveAt(p, i)
	if err != nil {
		return nil, err
	}
	cfg := slideConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	svgOpts := []sink.SVGOption{sink.WithCounter(i, p.Len()), sink.WithFooter(s.Theme.Secondary)}
	if cfg.scale > 0 {
		svgOpts = append(svgOpts, sink.WithScale(sink.PixelsPerUnit*cfg.scale))
	}
	return sink.RenderSVG(s, svgOpts...), nil
}

// Option adjusts [RenderSlide].
type Option func(*slideConfig)

type slideConfig struct{ scale float64 }

// WithSlideScale multiplies the default SVG resolution.
func WithSlideScale(k float64) Option { return func(c *slideConfig) { c.scale = k } }

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

