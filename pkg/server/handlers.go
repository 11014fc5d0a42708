package server

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/errors"
	"github.com/matzehuels/slidecraft/pkg/export"
	"github.com/matzehuels/slidecraft/pkg/generator"
	"github.com/matzehuels/slidecraft/pkg/pipeline"
	"github.com/matzehuels/slidecraft/pkg/preview"
	"github.com/matzehuels/slidecraft/pkg/session"
	"github.com/matzehuels/slidecraft/pkg/theme"
)

// Assistant replies recorded in the session.
const (
	generatedMessage = "I've created a presentation titled %q with %d slides. You can preview it on the right and download it when ready."
	updatedMessage   = "I've updated the presentation based on your request. The changes have been applied to your slides."
)

var errNoPresentation = errors.New(errors.ErrCodePresentationNotFound, "Session or presentation not found")

type generateRequest struct {
	Prompt        string          `json:"prompt"`
	SessionID     string          `json:"sessionId,omitempty"`
	IncludeImages *bool           `json:"includeImages,omitempty"`
	SlideCount    int             `json:"slideCount,omitempty"`
	Style         generator.Style `json:"style,omitempty"`
}

type updateRequest struct {
	Prompt     string              `json:"prompt"`
	SessionID  string              `json:"sessionId"`
	SlideIndex *int                `json:"slideIndex,omitempty"`
	Operation  generator.Operation `json:"operation,omitempty"`
}

type deckResponse struct {
	SessionID    string             `json:"sessionId"`
	Presentation *deck.Presentation `json:"presentation"`
	Message      string             `json:"message"`
}

type exportRequest struct {
	Format       string `json:"format,omitempty"`
	IncludeNotes bool   `json:"includeNotes,omitempty"`
	Theme        string `json:"theme,omitempty"`
}

// Export formats and their content types.
var exportTypes = map[string]string{
	"pptx":                  "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	pipeline.FormatPDF:      "application/pdf",
	pipeline.FormatJSON:     "application/json",
	pipeline.FormatMarkdown: "text/markdown; charset=utf-8",
	pipeline.FormatHTML:     "text/html; charset=utf-8",
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var body generateRequest
	if err := decode(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	req := generator.GenerateRequest{
		Prompt:        body.Prompt,
		SlideCount:    body.SlideCount,
		Style:         body.Style,
		IncludeImages: body.IncludeImages,
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	var sess *session.Session
	var err error
	if body.SessionID != "" {
		sess, err = s.Sessions.Get(ctx, body.SessionID)
	} else {
		sess, err = s.Sessions.Create(ctx)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.Sessions.AddMessage(ctx, sess.ID, session.RoleUser, req.Prompt); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.Generator.Generate(ctx, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.finish(w, r, sess.ID, p, fmt.Sprintf(generatedMessage, p.Title, p.Len()))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var body updateRequest
	if err := decode(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx := r.Context()
	sess, err := s.Sessions.Get(ctx, body.SessionID)
	if err != nil || sess.Presentation == nil {
		s.writeError(w, r, errNoPresentation)
		return
	}
	req := generator.UpdateRequest{Prompt: body.Prompt, SlideIndex: body.SlideIndex, Operation: body.Operation}
	if err := req.Validate(sess.Presentation); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.Sessions.AddMessage(ctx, sess.ID, session.RoleUser, req.Prompt); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.Generator.Update(ctx, req, sess.Presentation)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.finish(w, r, sess.ID, p, updatedMessage)
}

// finish stores the deck and the assistant reply, then answers the client.
func (s *Server) finish(w http.ResponseWriter, r *http.Request, id string, p *deck.Presentation, reply string) {
	ctx := r.Context()
	if _, err := s.Sessions.UpdatePresentation(ctx, id, p); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.Sessions.AddMessage(ctx, id, session.RoleAssistant, reply); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.hub.Update(id, p)
	writeJSON(w, http.StatusOK, deckResponse{SessionID: id, Presentation: p, Message: reply})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// presentation loads the deck of the session in the route.
func (s *Server) presentation(r *http.Request) (*deck.Presentation, error) {
	sess, err := s.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil || sess.Presentation == nil {
		return nil, errNoPresentation
	}
	return sess.Presentation, nil
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.Sessions.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	nav := preview.New(sess.Presentation)
	nav.Select(s.hub.Current(id))
	frame, err := nav.Frame()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

func (s *Server) handleSlide(w http.ResponseWriter, r *http.Request) {
	p, err := s.presentation(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || i < 0 || i >= p.Len() {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "slide %s not found", chi.URLParam(r, "index")))
		return
	}
	var opts []pipeline.Option
	if v := r.URL.Query().Get("scale"); v != "" {
		k, err := strconv.ParseFloat(v, 64)
		if err != nil || k <= 0 || k > 8 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, 8]"))
			return
		}
		opts = append(opts, pipeline.WithSlideScale(k))
	}
	svg, err := pipeline.RenderSlide(p, i, opts...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(svg)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var body exportRequest
	if r.ContentLength != 0 {
		if err := decode(w, r, &body); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if body.Format == "" {
		body.Format = "pptx"
	}
	contentType, ok := exportTypes[body.Format]
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "unsupported export format %q", body.Format))
		return
	}
	if body.Theme != "" {
		if _, ok := theme.ByName(body.Theme); !ok {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidTheme, "unknown theme %q", body.Theme))
			return
		}
	}
	p, err := s.presentation(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var name string
	var data []byte
	if body.Format == "pptx" {
		name, data, err = s.exportPPTX(r, p, body.Theme)
	} else {
		name, data, err = s.exportArtifact(r, p, body)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *Server) exportPPTX(r *http.Request, p *deck.Presentation, themeName string) (string, []byte, error) {
	e := *s.Exporter
	if themeName != "" {
		e.Themes = export.FixedPicker{Name: themeName}
	}
	res, data, err := e.Build(r.Context(), p)
	if err != nil {
		return "", nil, err
	}
	return res.Filename, data, nil
}

func (s *Server) exportArtifact(r *http.Request, p *deck.Presentation, body exportRequest) (string, []byte, error) {
	res, err := s.Runner.Execute(r.Context(), p, pipeline.Options{
		Formats: []string{body.Format},
		Theme:   body.Theme,
		Notes:   body.IncludeNotes,
		Counter: true,
	})
	if err != nil {
		return "", nil, err
	}
	data, ok := res.Get(body.Format)
	if !ok {
		return "", nil, errors.New(errors.ErrCodeExportFailed, "no %s output", body.Format)
	}
	now := time.Now
	if s.Exporter.Now != nil {
		now = s.Exporter.Now
	}
	name := strings.TrimSuffix(export.Filename(p.Title, now()), export.Extension) + "." + body.Format
	return name, data, nil
}
