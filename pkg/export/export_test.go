package export

import (
	"bytes"
	"context"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/errors"
	"github.com/matzehuels/slidecraft/pkg/render/pptx"
	"github.com/matzehuels/slidecraft/pkg/theme"
)

func sevenSlides() *deck.Presentation {
	return &deck.Presentation{
		ID:    "p1",
		Title: "Ocean Futures",
		Slides: []deck.Slide{
			{ID: "1", Type: deck.TypeTitle, Title: "Ocean Futures", Subtitle: "A briefing"},
			{ID: "2", Type: deck.TypeContent, Title: "Pressures", Content: []string{"Warming surface waters", "Rising acidity levels"}},
			{ID: "3", Type: deck.TypeSection, Title: "Responses"},
			{ID: "4", Type: deck.TypeContent, Title: "Policy", Content: []string{"Marine protected areas expand"}},
			{ID: "5", Type: deck.TypeContent, Title: "Science", Content: []string{"Better ocean observation networks"}},
			{ID: "6", Type: deck.TypeContent, Title: "Industry", Content: []string{"Cleaner shipping fuels adopted"}},
			{ID: "7", Type: deck.TypeSection, Title: "Thank You"},
		},
	}
}

type memSaver struct {
	calls int
	name  string
	data  []byte
}

func (m *memSaver) Save(_ context.Context, filename string, data []byte) (string, error) {
	m.calls++
	m.name, m.data = filename, data
	return "mem://" + filename, nil
}

type recorder struct{ got []Notification }

func (r *recorder) Notify(_ context.Context, n Notification) { r.got = append(r.got, n) }

type writerFunc func(ctx context.Context, w io.Writer, doc pptx.Document) error

func (f writerFunc) Write(ctx context.Context, w io.Writer, doc pptx.Document) error {
	return f(ctx, w, doc)
}

var fixedNow = time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)

func TestExportSuccess(t *testing.T) {
	saver, notes := &memSaver{}, &recorder{}
	e := New(WithSaver(saver), WithNotifier(notes), WithClock(func() time.Time { return fixedNow }))

	res, err := e.Export(context.Background(), sevenSlides())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.Filename != "Ocean Futures_2026-03-01.pptx" {
		t.Errorf("Filename = %q", res.Filename)
	}
	if res.Path != "mem://"+res.Filename || saver.calls != 1 {
		t.Errorf("Path = %q, saves = %d", res.Path, saver.calls)
	}
	if res.Theme.Name != "Ocean Blue" || res.Slides != 7 || res.Size != len(saver.data) {
		t.Errorf("result = %+v", res)
	}
	if !bytes.HasPrefix(saver.data, []byte("PK")) {
		t.Error("saved data is not a zip archive")
	}
	want := Success(SuccessTitle, "Your presentation with Ocean Blue theme has been downloaded successfully.")
	if len(notes.got) != 1 || notes.got[0] != want {
		t.Errorf("notifications = %+v", notes.got)
	}
}

func TestExportFailuresNeverSave(t *testing.T) {
	tests := []struct {
		name   string
		writer DocumentWriter
		deck   *deck.Presentation
	}{
		{
			name: "writer error mid deck",
			writer: writerFunc(func(_ context.Context, w io.Writer, doc pptx.Document) error {
				for i := range doc.Slides {
					if i == 3 {
						return errors.New(errors.ErrCodeInternal, "slide 4 broke")
					}
					io.WriteString(w, "partial")
				}
				return nil
			}),
			deck: sevenSlides(),
		},
		{
			name: "writer panic",
			writer: writerFunc(func(context.Context, io.Writer, pptx.Document) error {
				panic("boom")
			}),
			deck: sevenSlides(),
		},
		{
			name: "invalid deck",
			deck: &deck.Presentation{Title: "Empty"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saver, notes := &memSaver{}, &recorder{}
			e := New(WithWriter(tt.writer), WithSaver(saver), WithNotifier(notes))
			res, err := e.Export(context.Background(), tt.deck)
			if !errors.Is(err, errors.ErrCodeExportFailed) {
				t.Fatalf("err = %v, want EXPORT_FAILED", err)
			}
			if res != (Result{}) {
				t.Errorf("result = %+v, want zero", res)
			}
			if saver.calls != 0 {
				t.Errorf("saver called %d times", saver.calls)
			}
			if len(notes.got) != 1 || notes.got[0] != Failure(FailureTitle, FailureDescription) {
				t.Errorf("notifications = %+v", notes.got)
			}
		})
	}
}

func TestBuildUsesOneTheme(t *testing.T) {
	var seen pptx.Document
	e := New(
		WithThemes(FixedPicker{Name: "modern dark"}),
		WithWriter(writerFunc(func(_ context.Context, w io.Writer, doc pptx.Document) error {
			seen = doc
			_, err := io.WriteString(w, "doc")
			return err
		})),
	)
	res, data, err := e.Build(context.Background(), sevenSlides())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if string(data) != "doc" || res.Size != 3 {
		t.Errorf("data = %q, size = %d", data, res.Size)
	}
	for i, s := range seen.Slides {
		if s.Theme.Name != "Modern Dark" {
			t.Errorf("slide %d theme = %s", i+1, s.Theme.Name)
		}
	}
	if seen.Metadata.Author != Product || seen.Metadata.Title != "Ocean Futures" {
		t.Errorf("metadata = %+v", seen.Metadata)
	}
}

func TestPickers(t *testing.T) {
	p := sevenSlides()
	if th, _ := (PositionPicker{}).Pick(p); th.Name != theme.At(0).Name {
		t.Errorf("PositionPicker = %s", th.Name)
	}

	tests := []struct {
		name    string
		picker  FixedPicker
		deckTh  string
		want    string
		invalid bool
	}{
		{name: "named", picker: FixedPicker{Name: "Forest Green"}, want: "Forest Green"},
		{name: "deck theme", deckTh: "Sunset Glow", want: "Sunset Glow"},
		{name: "fallback", want: "Ocean Blue"},
		{name: "unknown", picker: FixedPicker{Name: "Neon"}, invalid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := sevenSlides()
			d.Theme = tt.deckTh
			th, err := tt.picker.Pick(d)
			if tt.invalid {
				if !errors.Is(err, errors.ErrCodeInvalidTheme) {
					t.Fatalf("err = %v, want INVALID_THEME", err)
				}
				return
			}
			if err != nil || th.Name != tt.want {
				t.Errorf("Pick = %s, %v; want %s", th.Name, err, tt.want)
			}
		})
	}

	r := RandomPicker{Rand: rand.New(rand.NewPCG(1, 2))}
	for range 20 {
		th, _ := r.Pick(p)
		if _, ok := theme.ByName(th.Name); !ok {
			t.Fatalf("RandomPicker returned %q", th.Name)
		}
	}
}

func TestFilename(t *testing.T) {
	day := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		title string
		want  string
	}{
		{"Quarterly Review", "Quarterly Review_2026-10-14.pptx"},
		{"a/b\\c", "a_b_c_2026-10-14.pptx"},
		{"What? <Now>", "What_ _Now__2026-10-14.pptx"},
		{"  ", "presentation_2026-10-14.pptx"},
		{"..hidden", "hidden_2026-10-14.pptx"},
		{"tab\there", "tabhere_2026-10-14.pptx"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := Filename(tt.title, day)
			if got != tt.want {
				t.Errorf("Filename(%q) = %q, want %q", tt.title, got, tt.want)
			}
			if err := errors.ValidateFilename(got); err != nil {
				t.Errorf("Filename(%q) is not a valid filename: %v", tt.title, err)
			}
		})
	}
}

func TestFileSaver(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s := FileSaver{Dir: dir}

	path, err := s.Save(context.Background(), "deck.pptx", []byte("content"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil || string(got) != "content" {
		t.Fatalf("ReadFile = %q, %v", got, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1", len(entries))
	}

	if _, err := s.Save(context.Background(), "../escape.pptx", nil); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Save(../escape.pptx) err = %v, want INVALID_PATH", err)
	}
}

func TestLogNotifierNil(t *testing.T) {
	// A notifier without a logger is a no-op.
	LogNotifier{}.Notify(context.Background(), Failure("x", "y"))
	if !strings.Contains(FailureDescription, "Please try again") {
		t.Error("unexpected failure text")
	}
}
