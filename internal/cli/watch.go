package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// burstWindow batches the chmod/write/chmod sequences editors produce for
// a single save into one change.
const burstWindow = 16 * time.Millisecond

// watchFile calls onChange after each settled write to path until ctx is
// done. The parent directory is watched so that editors which save by
// renaming a temp file over the original keep being noticed.
func watchFile(ctx context.Context, path string, logger *log.Logger, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	lastModified := modTime(abs)
	burst := time.NewTimer(0)
	<-burst.C
	pending := false

	for {
		select {
		case ev, ok := <-fw.Events:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			logger.Debug("file event", "op", ev.Op.String(), "path", ev.Name)
			mt := modTime(abs)
			if ev.Op == fsnotify.Chmod {
				if mt.Equal(lastModified) {
					continue
				}
			}
			lastModified = mt
			pending = true
			burst.Reset(burstWindow)
		case <-burst.C:
			if pending {
				pending = false
				onChange()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			logger.Warn("watch error", "err", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func modTime(path string) time.Time {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}
