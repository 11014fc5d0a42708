package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matzehuels/slidecraft/pkg/errors"
	"github.com/matzehuels/slidecraft/pkg/export"
	"github.com/matzehuels/slidecraft/pkg/generator"
	"github.com/matzehuels/slidecraft/pkg/session"
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(
		WithGenerator(generator.NewResilient(nil, generator.Fallback{Now: clock}, nil)),
		WithExporter(export.New(export.WithClock(clock))),
	)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func post(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func generate(t *testing.T, ts *httptest.Server) deckResponse {
	t.Helper()
	resp := post(t, ts.URL+"/api/generate-slides", map[string]any{"prompt": "A talk about coral reefs"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate status = %d", resp.StatusCode)
	}
	return decodeBody[deckResponse](t, resp)
}

func TestGenerateAndUpdate(t *testing.T) {
	s, ts := newTestServer(t)
	got := generate(t, ts)

	if got.SessionID == "" || got.Presentation.Len() != 9 {
		t.Fatalf("got session %q with %d slides", got.SessionID, got.Presentation.Len())
	}
	want := `I've created a presentation titled "Coral Reefs" with 9 slides. You can preview it on the right and download it when ready.`
	if got.Message != want {
		t.Errorf("message = %q", got.Message)
	}

	i := 1
	resp := post(t, ts.URL+"/api/update-slides", map[string]any{"prompt": "punchier", "sessionId": got.SessionID, "slideIndex": i})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}
	upd := decodeBody[deckResponse](t, resp)
	if upd.Message != updatedMessage {
		t.Errorf("message = %q", upd.Message)
	}
	if title := upd.Presentation.Slides[1].Title; !strings.HasSuffix(title, generator.UpdatedSuffix) {
		t.Errorf("slide 2 title = %q", title)
	}

	sess, err := s.Sessions.Get(t.Context(), got.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	roles := make([]session.Role, len(sess.Messages))
	for i, m := range sess.Messages {
		roles[i] = m.Role
	}
	wantRoles := []session.Role{session.RoleUser, session.RoleAssistant, session.RoleUser, session.RoleAssistant}
	if fmt.Sprint(roles) != fmt.Sprint(wantRoles) {
		t.Errorf("roles = %v, want %v", roles, wantRoles)
	}
}

func TestErrors(t *testing.T) {
	_, ts := newTestServer(t)
	tests := []struct {
		name   string
		path   string
		body   any
		status int
		msg    string
	}{
		{"empty prompt", "/api/generate-slides", map[string]any{"prompt": ""}, http.StatusBadRequest, "prompt cannot be empty"},
		{"bad count", "/api/generate-slides", map[string]any{"prompt": "x", "slideCount": 40}, http.StatusBadRequest, ""},
		{"unknown session", "/api/generate-slides", map[string]any{"prompt": "x", "sessionId": "nope"}, http.StatusNotFound, "Session not found"},
		{"update without session", "/api/update-slides", map[string]any{"prompt": "x", "sessionId": "nope"}, http.StatusNotFound, "Session or presentation not found"},
		{"bad json", "/api/generate-slides", "{", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			body := decodeBody[errorBody](t, resp)
			if body.Error == "" || (tt.msg != "" && body.Error != tt.msg) {
				t.Errorf("error = %q, want %q", body.Error, tt.msg)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidTheme, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeSessionNotFound, "x"), http.StatusNotFound},
		{session.ErrNotFound, http.StatusNotFound},
		{errors.New(errors.ErrCodeQuotaExceeded, "x"), http.StatusTooManyRequests},
		{errors.New(errors.ErrCodeExportFailed, "x"), http.StatusInternalServerError},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestSessionAndPreview(t *testing.T) {
	_, ts := newTestServer(t)
	got := generate(t, ts)

	resp, err := http.Get(ts.URL + "/api/sessions/" + got.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	sess := decodeBody[session.Session](t, resp)
	if sess.Presentation == nil || len(sess.Messages) != 2 {
		t.Fatalf("session = %+v", sess)
	}

	resp, err = http.Get(ts.URL + "/api/sessions/" + got.SessionID + "/slides/2.svg")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/svg+xml" {
		t.Fatalf("svg: %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !strings.HasPrefix(buf.String(), "<svg") && !strings.HasPrefix(buf.String(), "<?xml") {
		t.Errorf("not an svg: %.40s", buf.String())
	}
	if !strings.Contains(buf.String(), "3 / 9") {
		t.Error("svg has no slide counter")
	}

	for _, path := range []string{"/slides/9.svg", "/slides/x.svg"} {
		resp, err := http.Get(ts.URL + "/api/sessions/" + got.SessionID + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s status = %d", path, resp.StatusCode)
		}
	}

	resp, err = http.Get(ts.URL + "/api/sessions/" + got.SessionID + "/preview")
	if err != nil {
		t.Fatal(err)
	}
	frame := decodeBody[map[string]any](t, resp)
	if frame["counter"] != "1 / 9" {
		t.Errorf("frame counter = %v", frame["counter"])
	}
}

func TestExport(t *testing.T) {
	_, ts := newTestServer(t)
	got := generate(t, ts)
	url := ts.URL + "/api/sessions/" + got.SessionID + "/export"

	tests := []struct {
		name     string
		body     map[string]any
		filename string
		prefix   string
	}{
		{"pptx", map[string]any{"format": "pptx", "theme": "Sunset Glow"}, "Coral Reefs_2026-03-01.pptx", "PK"},
		{"json", map[string]any{"format": "json"}, "Coral Reefs_2026-03-01.json", "{"},
		{"markdown", map[string]any{"format": "md", "includeNotes": true}, "Coral Reefs_2026-03-01.md", "#"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, url, tt.body)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			cd := resp.Header.Get("Content-Disposition")
			if !strings.Contains(cd, tt.filename) {
				t.Errorf("Content-Disposition = %q, want %q", cd, tt.filename)
			}
			var buf bytes.Buffer
			buf.ReadFrom(resp.Body)
			if !strings.HasPrefix(buf.String(), tt.prefix) {
				t.Errorf("body starts with %.10q", buf.String())
			}
		})
	}

	resp := post(t, url, map[string]any{"format": "docx"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("docx status = %d", resp.StatusCode)
	}
	resp = post(t, url, map[string]any{"theme": "Neon"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown theme status = %d", resp.StatusCode)
	}
}

func TestWebsocketSelection(t *testing.T) {
	s, ts := newTestServer(t)
	got := generate(t, ts)
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/sessions/" + got.SessionID + "/ws"

	dial := func() *websocket.Conn {
		c, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { c.Close() })
		return c
	}
	a, b := dial(), dial()

	deadline := time.Now().Add(2 * time.Second)
	for s.Hub().Clients(got.SessionID) < 2 {
		if time.Now().After(deadline) {
			t.Fatal("clients never joined")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := a.WriteJSON(Message{Type: MsgSelect, Index: 4}); err != nil {
		t.Fatal(err)
	}
	for name, c := range map[string]*websocket.Conn{"a": a, "b": b} {
		_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg Message
		if err := c.ReadJSON(&msg); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if msg.Type != MsgSlideSelected || msg.Index != 4 {
			t.Errorf("%s got %+v", name, msg)
		}
	}
	if cur := s.Hub().Current(got.SessionID); cur != 4 {
		t.Errorf("Current() = %d", cur)
	}

	_, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/api/sessions/missing/ws", nil)
	if err == nil {
		t.Error("dial to unknown session succeeded")
	}
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestSessionIDRejected(t *testing.T) {
	_, ts := newTestServer(t)
	for _, id := range []string{"a.b", "x~y"} {
		resp, err := http.Get(ts.URL + "/api/sessions/" + id + "/preview")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("GET session %q status = %d, want 400", id, resp.StatusCode)
		}
	}
}
