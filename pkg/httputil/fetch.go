package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidecraft/pkg/cache"
	"github.com/matzehuels/slidecraft/pkg/errors"
)

// MaxImageBytes caps a single downloaded image.
const MaxImageBytes = 10 << 20

// Fetcher loads image bytes by URL or path. The zero value fetches with
// [http.DefaultClient] and no cache.
type Fetcher struct {
	Client *http.Client
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// Attempts is the retry budget for remote fetches (default 3).
	Attempts int
	// Backoff is the first retry delay (default [DefaultBackoff]).
	Backoff time.Duration
}

// cachedImage is the cache payload of one fetched image.
type cachedImage struct {
	Data        []byte `json:"data"`
	ContentType string `json:"content_type"`
}

// Fetch returns the image bytes and declared content type of src.
func (f *Fetcher) Fetch(ctx context.Context, src string) ([]byte, string, error) {
	u, err := url.Parse(src)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "image source %q", src)
	}
	switch u.Scheme {
	case "http", "https":
		return f.fetchRemote(ctx, src)
	case "file":
		return readLocal(u.Path)
	case "":
		return readLocal(src)
	}
	return nil, "", errors.New(errors.ErrCodeUnsupported, "unsupported image scheme %q", u.Scheme)
}

func (f *Fetcher) fetchRemote(ctx context.Context, src string) ([]byte, string, error) {
	key := f.keyer().HTTPKey("image", src)
	if f.Cache != nil {
		if raw, hit, err := f.Cache.Get(ctx, key); err == nil && hit {
			var img cachedImage
			if json.Unmarshal(raw, &img) == nil {
				return img.Data, img.ContentType, nil
			}
		}
	}

	var img cachedImage
	attempts := f.Attempts
	if attempts == 0 {
		attempts = 3
	}
	backoff := f.Backoff
	if backoff == 0 {
		backoff = DefaultBackoff
	}
	err := Retry(ctx, attempts, backoff, func() error {
		req, err := http.NewRequest(http.MethodGet, src, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "image/*")
		resp, err := Do(ctx, f.Client, req)
		if err != nil {
			return Retryable(err)
		}
		defer resp.Body.Close()
		if err := CheckStatus(resp); err != nil {
			return err
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
		if err != nil {
			return Retryable(err)
		}
		if len(data) > MaxImageBytes {
			return fmt.Errorf("image larger than %d bytes", MaxImageBytes)
		}
		img = cachedImage{Data: data, ContentType: resp.Header.Get("Content-Type")}
		return nil
	})
	if err != nil {
		f.logger().Debug("image fetch failed", "url", src, "err", err)
		return nil, "", errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", src)
	}

	if f.Cache != nil {
		if raw, err := json.Marshal(img); err == nil {
			_ = f.Cache.Set(ctx, key, raw, cache.ImageTTL)
		}
	}
	return img.Data, img.ContentType, nil
}

func readLocal(path string) ([]byte, string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "image %s", path)
		}
		return nil, "", err
	}
	if len(data) > MaxImageBytes {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "image %s larger than %d bytes", path, MaxImageBytes)
	}
	return data, contentTypeByExt(path), nil
}

func contentTypeByExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	}
	return ""
}

func (f *Fetcher) keyer() cache.Keyer {
	if f.Keyer == nil {
		return cache.NewDefaultKeyer()
	}
	return f.Keyer
}

func (f *Fetcher) logger() *log.Logger {
	if f.Logger == nil {
		return log.New(io.Discard)
	}
	return f.Logger
}
