package codebase

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

const DefaultPollInterval = time.Second

// FileWatcher polls the codebase root for .java files that appeared,
// changed or disappeared since the last poll.
type FileWatcher struct {
	codebase     *Codebase
	pollInterval time.Duration
	modTimes     map[string]time.Time
}

func NewFileWatcher(c *Codebase, interval time.Duration) *FileWatcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &FileWatcher{
		codebase:     c,
		pollInterval: interval,
		modTimes:     make(map[string]time.Time),
	}
}

// Start polls in a new goroutine until ctx is done.
func (w *FileWatcher) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *FileWatcher) run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.Poll()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Poll()
		}
	}
}

// Poll runs one scan and reports how many files it rescanned or removed.
func (w *FileWatcher) Poll() (changed int) {
	current := make(map[string]bool)

	root := w.codebase.RootDir()
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".java" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}

		current[path] = true

		lastMod, known := w.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			w.modTimes[path] = info.ModTime()
			if err := w.codebase.ScanFile(path); err != nil {
				log.Warningf("rescan %s: %s", path, err)
			}
			changed++
		}
		return nil
	})

	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			w.codebase.RemoveFile(path)
			changed++
		}
	}
	if changed > 0 {
		log.Debugf("watcher picked up %d changes", changed)
	}
	return changed
}
