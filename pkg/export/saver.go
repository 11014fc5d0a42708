package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/slidecraft/pkg/errors"
)

// Saver stores a finished document and returns where it went.
type Saver interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
}

// FileSaver writes documents into Dir through a temp file and rename, so a
// reader never sees a half-written file.
type FileSaver struct {
	Dir string
}

// Save implements [Saver].
func (s FileSaver) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if err := errors.ValidateFilename(filename); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, ".slidecraft-*.tmp")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename)
	if err := os.Rename(tmpName, path); err != nil {
		return "", err
	}
	return path, nil
}

// Extension of exported documents.
const Extension = ".pptx"

var unsafeFilename = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_", "\x00", "_",
)

// Filename derives "{title}_{YYYY-MM-DD}.pptx". Characters that are unsafe
// in file names become underscores; the date is the UTC calendar day.
func Filename(title string, now time.Time) string {
	name := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, unsafeFilename.Replace(title))
	name = strings.Trim(strings.TrimSpace(name), ".")
	if name == "" {
		name = "presentation"
	}
	if len(name) > 200 {
		name = strings.ToValidUTF8(name[:200], "")
	}
	return name + "_" + now.UTC().Format(time.DateOnly) + Extension
}
