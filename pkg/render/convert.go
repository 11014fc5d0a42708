package render

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

const installHint = "%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin"

// Available reports whether rsvg-convert is on PATH.
func Available() bool {
	_, err := exec.LookPath("rsvg-convert")
	return err == nil
}

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return rsvgConvert(svg, "pdf")
}

// ToPNG converts SVG bytes to PNG using rsvg-convert with the given scale factor.
// Scale of 2.0 produces a 2x resolution image.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	return rsvgConvert(svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// PagesToPDF converts each SVG to one page of a single PDF, in order.
func PagesToPDF(pages [][]byte) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages to convert")
	}
	if len(pages) == 1 {
		return ToPDF(pages[0])
	}
	if !Available() {
		return nil, fmt.Errorf(installHint, "pdf")
	}

	dir, err := os.MkdirTemp("", "slidecraft-pdf-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	args := []string{"-f", "pdf"}
	for i, svg := range pages {
		path := filepath.Join(dir, fmt.Sprintf("page-%03d.svg", i+1))
		if err := os.WriteFile(path, svg, 0o600); err != nil {
			return nil, err
		}
		args = append(args, path)
	}
	return run(nil, args...)
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !Available() {
		return nil, fmt.Errorf(installHint, format)
	}
	args := append([]string{"-f", format}, extraArgs...)
	return run(svg, args...)
}

func run(stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.Command("rsvg-convert", args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
