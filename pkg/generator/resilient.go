package generator

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/errors"
	"github.com/matzehuels/slidecraft/pkg/observability"
)

// Resilient tries Primary first and switches to Fallback when the primary
// reports an exhausted quota. A nil Primary always uses the fallback.
type Resilient struct {
	Primary  Generator
	Fallback Generator
	Logger   *log.Logger
}

// NewResilient wraps primary. A nil fallback means [Fallback] with the
// system clock.
func NewResilient(primary, fallback Generator, logger *log.Logger) *Resilient {
	if fallback == nil {
		fallback = Fallback{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resilient{Primary: primary, Fallback: fallback, Logger: logger}
}

// Generate implements [Generator].
func (r *Resilient) Generate(ctx context.Context, req GenerateRequest) (*deck.Presentation, error) {
	return r.run(ctx, "generate", func(g Generator) (*deck.Presentation, error) {
		return g.Generate(ctx, req)
	})
}

// Update implements [Generator].
func (r *Resilient) Update(ctx context.Context, req UpdateRequest, current *deck.Presentation) (*deck.Presentation, error) {
	return r.run(ctx, string(req.Operation), func(g Generator) (*deck.Presentation, error) {
		return g.Update(ctx, req, current)
	})
}

func (r *Resilient) run(ctx context.Context, op string, call func(Generator) (*deck.Presentation, error)) (p *deck.Presentation, err error) {
	if op == "" {
		op = string(OpEdit)
	}
	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, op)
	start := time.Now()
	fellBack := false
	defer func() {
		hooks.OnGenerateComplete(ctx, op, p.Len(), fellBack, time.Since(start), err)
	}()

	if r.Primary != nil {
		p, err = call(r.Primary)
		if err == nil || !errors.Is(err, errors.ErrCodeQuotaExceeded) {
			return p, err
		}
		r.Logger.Warn("generator quota exceeded, using fallback deck", "op", op, "err", err)
	}
	fellBack = true
	return call(r.Fallback)
}

var _ Generator = (*Resilient)(nil)
