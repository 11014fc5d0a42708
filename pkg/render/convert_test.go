package render

import (
	"bytes"
	"testing"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10" fill="#1E40AF"/></svg>`

func TestConvert(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}

	tests := []struct {
		name   string
		fn     func() ([]byte, error)
		prefix []byte
	}{
		{"pdf", func() ([]byte, error) { return ToPDF([]byte(tinySVG)) }, []byte("%PDF")},
		{"png", func() ([]byte, error) { return ToPNG([]byte(tinySVG), 2) }, []byte("\x89PNG")},
		{"pages", func() ([]byte, error) { return PagesToPDF([][]byte{[]byte(tinySVG), []byte(tinySVG)}) }, []byte("%PDF")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.fn()
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(out, tt.prefix) {
				t.Errorf("output starts with %q", out[:min(len(out), 8)])
			}
		})
	}
}

func TestPagesToPDFEmpty(t *testing.T) {
	if _, err := PagesToPDF(nil); err == nil {
		t.Error("expected error for no pages")
	}
}
