package observability

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level, failures at
// warn level. It implements all three hook interfaces:
//
//	h := observability.NewLogHooks(logger)
//	observability.SetPipelineHooks(h)
//	observability.SetCacheHooks(h)
//	observability.SetHTTPHooks(h)
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to l, or discard when l is nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.New(io.Discard)
	}
	return &LogHooks{logger: l.WithPrefix("obs")}
}

// Install registers h for pipeline, cache and HTTP events.
func (h *LogHooks) Install() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) done(msg string, err error, kv ...any) {
	if err != nil {
		h.logger.Warn(msg, append(kv, "err", err)...)
		return
	}
	h.logger.Debug(msg, kv...)
}

func (h *LogHooks) OnGenerateStart(_ context.Context, op string) {
	h.logger.Debug("generate start", "op", op)
}

func (h *LogHooks) OnGenerateComplete(_ context.Context, op string, slides int, fallback bool, d time.Duration, err error) {
	h.done("generate done", err, "op", op, "slides", slides, "fallback", fallback, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string, slides int) {
	h.logger.Debug("render start", "formats", formats, "slides", slides)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render done", err, "formats", formats, "duration", d)
}

func (h *LogHooks) OnExportStart(_ context.Context, theme string, slides int) {
	h.logger.Debug("export start", "theme", theme, "slides", slides)
}

func (h *LogHooks) OnExportComplete(_ context.Context, theme string, size int, d time.Duration, err error) {
	h.done("export done", err, "theme", theme, "size", size, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "size", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
