package generator

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/errors"
	"github.com/matzehuels/slidecraft/pkg/httputil"
)

// Client defaults.
const (
	DefaultEndpoint = "https://api.openai.com/v1"
	DefaultModel    = "gpt-4o-mini"
	DefaultTimeout  = 60 * time.Second
)

// ClientConfig configures a [Client].
type ClientConfig struct {
	// Endpoint is the API base URL; "/chat/completions" is appended.
	Endpoint string
	Model    string
	APIKey   string
	Timeout  time.Duration
	// Attempts is the retry budget for transient failures (default 3).
	Attempts int
	// Backoff is the first retry delay (default 1s).
	Backoff time.Duration
	Logger  *log.Logger
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
	// Now is the clock; nil uses time.Now.
	Now func() time.Time
}

// Client generates decks with a remote chat model.
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

// NewClient builds a client, filling unset fields with defaults.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = 3
	}
	if cfg.Backoff == 0 {
		cfg.Backoff = httputil.DefaultBackoff
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = httputil.NewClient(cfg.Timeout)
	}
	return &Client{cfg: cfg, http: hc}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
	Temperature    float64           `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// deckReply is the JSON the model is asked to produce.
type deckReply struct {
	Title  string       `json:"title"`
	Slides []deck.Slide `json:"slides"`
}

// Generate implements [Generator].
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*deck.Presentation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	content, err := c.complete(ctx, generateSystemPrompt(req), req.Prompt)
	if err != nil {
		return nil, err
	}
	var reply deckReply
	if err := decodeReply(content, &reply); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reply.Title) == "" && len(reply.Slides) > 0 {
		reply.Title = reply.Slides[0].Title
	}
	p := deck.New(reply.Title, reply.Slides, c.cfg.Now())
	if err := deck.Validate(p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeGenerationFailed, err, "model returned an unusable deck")
	}
	attachImages(p, req.Images(), nil)
	return p, nil
}

// Update implements [Generator]. Slides that keep their id keep their image.
func (c *Client) Update(ctx context.Context, req UpdateRequest, current *deck.Presentation) (*deck.Presentation, error) {
	if err := deck.Validate(current); err != nil {
		return nil, err
	}
	if err := req.Validate(current); err != nil {
		return nil, err
	}
	content, err := c.complete(ctx, updateSystemPrompt(req, current), req.Prompt)
	if err != nil {
		return nil, err
	}
	var reply deckReply
	if err := decodeReply(content, &reply); err != nil {
		return nil, err
	}

	p := current.Clone()
	p.Slides = reply.Slides
	p.EnsureIDs()
	p.UpdatedAt = c.cfg.Now()
	if err := deck.Validate(p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeGenerationFailed, err, "model returned an unusable deck")
	}
	keep := make(map[string]string, current.Len())
	images := false
	for _, s := range current.Slides {
		keep[s.ID] = s.ImageURL
		images = images || s.HasImage()
	}
	attachImages(p, images, keep)
	return p, nil
}

// complete sends one system+user exchange and returns the reply text.
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0.7,
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode request")
	}

	var out chatResponse
	url := c.cfg.Endpoint + "/chat/completions"
	start := time.Now()
	err = httputil.Retry(ctx, c.cfg.Attempts, c.cfg.Backoff, func() error {
		req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		}
		resp, err := httputil.Do(ctx, c.http, req)
		if err != nil {
			return httputil.Retryable(err)
		}
		defer resp.Body.Close()
		if err := checkStatus(resp); err != nil {
			return err
		}
		out = chatResponse{}
		return json.NewDecoder(resp.Body).Decode(&out)
	})
	if err != nil {
		c.cfg.Logger.Warn("generation request failed", "model", c.cfg.Model, "duration", time.Since(start), "err", err)
		return "", classify(err)
	}
	c.cfg.Logger.Debug("generation request done", "model", c.cfg.Model, "duration", time.Since(start))

	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", errors.New(errors.ErrCodeGenerationFailed, "empty response from model")
	}
	return out.Choices[0].Message.Content, nil
}

// checkStatus is [httputil.CheckStatus] except that quota failures are
// final: retrying an exhausted quota only delays the fallback.
func checkStatus(resp *http.Response) error {
	err := httputil.CheckStatus(resp)
	if err == nil {
		return nil
	}
	var se *httputil.StatusError
	if stderrors.As(err, &se) && isQuota(se) {
		return se
	}
	return err
}

func isQuota(se *httputil.StatusError) bool {
	if se.StatusCode == http.StatusTooManyRequests {
		return true
	}
	body := strings.ToLower(se.Body)
	return strings.Contains(body, "quota") || strings.Contains(body, "resource_exhausted")
}

// classify maps transport errors to error codes.
func classify(err error) error {
	var se *httputil.StatusError
	switch {
	case stderrors.As(err, &se) && isQuota(se):
		return errors.Wrap(errors.ErrCodeQuotaExceeded, err, "generation quota exceeded")
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "generation timed out")
	case se != nil:
		return errors.Wrap(errors.ErrCodeGenerationFailed, err, "generation request failed")
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, "generation request failed")
}

// extractJSON returns the first balanced JSON object or array in s, which
// lets replies wrapped in prose or code fences through.
func extractJSON(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", false
	}
	depth, inString, escaped := 0, false, false
	for i := start; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{' || ch == '[':
			depth++
		case ch == '}' || ch == ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// decodeReply accepts an object with a slides field or a bare slide array.
func decodeReply(content string, reply *deckReply) error {
	raw, ok := extractJSON(content)
	if !ok {
		return errors.New(errors.ErrCodeGenerationFailed, "no JSON in model response")
	}
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &reply.Slides); err != nil {
			return errors.Wrap(errors.ErrCodeGenerationFailed, err, "decode slides")
		}
		return nil
	}
	if err := json.Unmarshal([]byte(raw), reply); err != nil {
		return errors.Wrap(errors.ErrCodeGenerationFailed, err, "decode deck")
	}
	if len(reply.Slides) == 0 {
		return errors.New(errors.ErrCodeGenerationFailed, "model returned no slides")
	}
	return nil
}

var _ Generator = (*Client)(nil)
var _ Generator = Fallback{}

func (c *Client) String() string { return fmt.Sprintf("%s@%s", c.cfg.Model, c.cfg.Endpoint) }
