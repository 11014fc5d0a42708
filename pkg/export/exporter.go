package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/errors"
	"github.com/matzehuels/slidecraft/pkg/geometry"
	"github.com/matzehuels/slidecraft/pkg/observability"
	"github.com/matzehuels/slidecraft/pkg/render/pptx"
	"github.com/matzehuels/slidecraft/pkg/theme"
)

// Product name written into document metadata.
const Product = "SlideCraft"

// DocumentWriter serializes resolved slides. [*pptx.Writer] implements it.
type DocumentWriter interface {
	Write(ctx context.Context, w io.Writer, doc pptx.Document) error
}

// Result describes a finished export.
type Result struct {
	Filename string      `json:"filename"`
	Path     string      `json:"path,omitempty"`
	Theme    theme.Theme `json:"theme"`
	Slides   int         `json:"slides"`
	Size     int         `json:"size"`
}

// Exporter turns presentations into saved documents.
type Exporter struct {
	Writer   DocumentWriter
	Saver    Saver
	Notifier Notifier
	Themes   ThemePicker
	Logger   *log.Logger
	// Now is the clock used for file names and metadata.
	Now func() time.Time
}

// Option configures an [Exporter].
type Option func(*Exporter)

func WithWriter(w DocumentWriter) Option    { return func(e *Exporter) { e.Writer = w } }
func WithSaver(s Saver) Option              { return func(e *Exporter) { e.Saver = s } }
func WithNotifier(n Notifier) Option        { return func(e *Exporter) { e.Notifier = n } }
func WithThemes(t ThemePicker) Option       { return func(e *Exporter) { e.Themes = t } }
func WithLogger(l *log.Logger) Option       { return func(e *Exporter) { e.Logger = l } }
func WithClock(now func() time.Time) Option { return func(e *Exporter) { e.Now = now } }

// New returns an exporter with a pptx writer, position-based theme and
// the current directory as destination, adjusted by opts.
func New(opts ...Option) *Exporter {
	e := &Exporter{}
	for _, opt := range opts {
		opt(e)
	}
	e.setDefaults()
	return e
}

func (e *Exporter) setDefaults() {
	if e.Logger == nil {
		e.Logger = log.New(io.Discard)
	}
	if e.Writer == nil {
		e.Writer = &pptx.Writer{Logger: e.Logger}
	}
	if e.Saver == nil {
		e.Saver = FileSaver{Dir: "."}
	}
	if e.Themes == nil {
		e.Themes = PositionPicker{}
	}
	if e.Now == nil {
		e.Now = time.Now
	}
}

// Export builds the document, saves it and notifies. It returns an
// EXPORT_FAILED error, after a failure notification, if any step fails.
func (e *Exporter) Export(ctx context.Context, p *deck.Presentation) (Result, error) {
	res, data, err := e.Build(ctx, p)
	if err == nil {
		res.Path, err = e.Saver.Save(ctx, res.Filename, data)
		if err != nil {
			err = errors.Wrap(errors.ErrCodeExportFailed, err, "save %s", res.Filename)
			e.Logger.Error("export failed", "title", p.Title, "err", err)
		}
	}
	if err != nil {
		e.notify(ctx, failure())
		return Result{}, err
	}
	e.Logger.Info("exported presentation", "path", res.Path, "slides", res.Slides, "theme", res.Theme.Name, "size", res.Size)
	e.notify(ctx, successFor(res.Theme.Name))
	return res, nil
}

// Build assembles the document in memory without saving or notifying.
// Nothing is returned but an error when assembly fails part way.
func (e *Exporter) Build(ctx context.Context, p *deck.Presentation) (res Result, data []byte, err error) {
	e.setDefaults()
	start := e.Now()
	themeName := ""
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrap(errors.ErrCodeExportFailed, fmt.Errorf("panic: %v", r), "assemble document")
		}
		if err != nil {
			res, data = Result{}, nil
			title := ""
			if p != nil {
				title = p.Title
			}
			e.Logger.Error("export failed", "title", title, "err", err)
		}
		observability.Pipeline().OnExportComplete(ctx, themeName, len(data), time.Since(start), err)
	}()

	if err := deck.Validate(p); err != nil {
		return Result{}, nil, errors.Wrap(errors.ErrCodeExportFailed, err, "invalid presentation")
	}
	th, err := e.Themes.Pick(p)
	if err != nil {
		return Result{}, nil, errors.Wrap(errors.ErrCodeExportFailed, err, "pick theme")
	}
	themeName = th.Name
	observability.Pipeline().OnExportStart(ctx, th.Name, p.Len())

	slides, err := geometry.DeckWithTheme(p, th)
	if err != nil {
		return Result{}, nil, errors.Wrap(errors.ErrCodeExportFailed, err, "resolve slides")
	}

	now := e.Now()
	doc := pptx.Document{
		Metadata: pptx.Metadata{
			Title:       p.Title,
			Subject:     p.Title,
			Author:      Product,
			Company:     Product,
			Application: Product,
			Created:     now,
		},
		Theme:  th,
		Slides: slides,
	}
	var buf bytes.Buffer
	if err := e.Writer.Write(ctx, &buf, doc); err != nil {
		return Result{}, nil, errors.Wrap(errors.ErrCodeExportFailed, err, "write document")
	}

	return Result{
		Filename: Filename(p.Title, now),
		Theme:    th,
		Slides:   len(slides),
		Size:     buf.Len(),
	}, buf.Bytes(), nil
}

func (e *Exporter) notify(ctx context.Context, n Notification) {
	if e.Notifier != nil {
		e.Notifier.Notify(ctx, n)
	}
}
