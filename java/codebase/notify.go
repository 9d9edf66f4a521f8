package codebase

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// NotifyWatcher follows file system events under the codebase root
// instead of polling. Directories created later are watched as they
// appear.
type NotifyWatcher struct {
	codebase *Codebase
	fsw      *fsnotify.Watcher
}

func NewNotifyWatcher(c *Codebase) (*NotifyWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &NotifyWatcher{codebase: c, fsw: fsw}
	if err := w.addTree(c.RootDir(), false); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run handles events until ctx is done and then releases the watcher.
func (w *NotifyWatcher) Run(ctx context.Context) {
	defer w.fsw.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warningf("watch %s: %s", w.codebase.RootDir(), err)
		}
	}
}

func (w *NotifyWatcher) handle(ev fsnotify.Event) {
	switch {
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		if filepath.Ext(ev.Name) == ".java" {
			w.codebase.RemoveFile(ev.Name)
		}
	case ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write):
		info, err := os.Stat(ev.Name)
		if err != nil {
			return
		}
		if info.IsDir() {
			if err := w.addTree(ev.Name, true); err != nil {
				log.Warningf("watch %s: %s", ev.Name, err)
			}
			return
		}
		if filepath.Ext(ev.Name) == ".java" {
			if err := w.codebase.ScanFile(ev.Name); err != nil {
				log.Warningf("rescan %s: %s", ev.Name, err)
			}
		}
	}
}

// addTree watches root and its non-hidden subdirectories. A directory
// that appears after startup may already hold files, so scan picks those
// up too.
func (w *NotifyWatcher) addTree(root string, scan bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			if scan && filepath.Ext(path) == ".java" {
				if err := w.codebase.ScanFile(path); err != nil {
					log.Warningf("scan %s: %s", path, err)
				}
			}
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

type WatchMode int

const (
	WatchOff WatchMode = iota
	WatchPoll
	WatchNotify
)

type WatchOptions struct {
	Mode     WatchMode
	Interval time.Duration
}

// Watch keeps c in sync with the files under its root until ctx is done.
// It returns once watching has started.
func Watch(ctx context.Context, c *Codebase, opts WatchOptions) error {
	switch opts.Mode {
	case WatchPoll:
		NewFileWatcher(c, opts.Interval).Start(ctx)
	case WatchNotify:
		w, err := NewNotifyWatcher(c)
		if err != nil {
			return err
		}
		go w.Run(ctx)
	}
	return nil
}
