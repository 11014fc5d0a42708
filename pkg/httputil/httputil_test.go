package httputil

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/slidecraft/pkg/cache"
	slerrors "github.com/matzehuels/slidecraft/pkg/errors"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	transient := errors.New("transient")

	tests := []struct {
		name      string
		failures  int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, true, 1, false},
		{"retry then success", 2, true, 3, false},
		{"exhausted", 5, true, 3, true},
		{"permanent", 5, false, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(ctx, 3, time.Millisecond, func() error {
				calls++
				if calls <= tt.failures {
					if tt.retryable {
						return Retryable(transient)
					}
					return transient
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, 3, time.Hour, func() error { return Retryable(errors.New("x")) })
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRetryableNil(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		code      int
		wantErr   bool
		retryable bool
	}{
		{200, false, false},
		{204, false, false},
		{400, true, false},
		{404, true, false},
		{429, true, true},
		{503, true, true},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		rec.WriteHeader(tt.code)
		rec.WriteString("detail")
		err := CheckStatus(rec.Result())
		if (err != nil) != tt.wantErr {
			t.Errorf("%d: err = %v", tt.code, err)
			continue
		}
		if isRetryable(err) != tt.retryable {
			t.Errorf("%d: retryable = %v, want %v", tt.code, isRetryable(err), tt.retryable)
		}
		if err != nil && StatusCode(err) != tt.code {
			t.Errorf("%d: StatusCode = %d", tt.code, StatusCode(err))
		}
	}
}

func TestFetcherRemote(t *testing.T) {
	img := pngBytes(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(img)
	}))
	defer srv.Close()

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f := &Fetcher{Client: srv.Client(), Cache: c, Backoff: time.Millisecond}

	data, ct, err := f.Fetch(context.Background(), srv.URL+"/a.png")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(data, img) || ct != "image/png" {
		t.Errorf("Fetch = %d bytes, %q", len(data), ct)
	}
	if hits.Load() != 2 {
		t.Errorf("server hits = %d, want 2 (one retry)", hits.Load())
	}

	if _, _, err := f.Fetch(context.Background(), srv.URL+"/a.png"); err != nil {
		t.Fatalf("cached Fetch: %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("second fetch should come from cache, hits = %d", hits.Load())
	}
}

func TestFetcherNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := &Fetcher{Client: srv.Client(), Backoff: time.Millisecond}
	_, _, err := f.Fetch(context.Background(), srv.URL+"/missing.png")
	if !slerrors.Is(err, slerrors.ErrCodeNetwork) || StatusCode(err) != http.StatusNotFound {
		t.Errorf("err = %v", err)
	}
}

func TestFetcherLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pic.png")
	if err := os.WriteFile(path, pngBytes(t), 0o644); err != nil {
		t.Fatal(err)
	}
	var f Fetcher
	for _, src := range []string{path, "file://" + path} {
		_, ct, err := f.Fetch(context.Background(), src)
		if err != nil || ct != "image/png" {
			t.Errorf("Fetch(%s) = %q, %v", src, ct, err)
		}
	}
	if _, _, err := f.Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.png")); !slerrors.Is(err, slerrors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v", err)
	}
	if _, _, err := f.Fetch(context.Background(), "ftp://host/x.png"); !slerrors.Is(err, slerrors.ErrCodeUnsupported) {
		t.Errorf("ftp err = %v", err)
	}
}
