package preset

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DirWatcher polls preset file modification times and triggers a callback
// when anything under the directory changes. Standard library polling is
// enough here; presets change rarely and a second of latency is fine.
type DirWatcher struct {
	dir      string
	interval time.Duration
	onChange func()

	stopCh    chan struct{}
	lastMTime map[string]time.Time
}

// NewDirWatcher creates a watcher over dir firing onChange after edits,
// additions or removals of .yaml files.
func NewDirWatcher(dir string, interval time.Duration, onChange func()) *DirWatcher {
	return &DirWatcher{
		dir:       dir,
		interval:  interval,
		onChange:  onChange,
		stopCh:    make(chan struct{}),
		lastMTime: make(map[string]time.Time),
	}
}

// Start begins polling in a goroutine.
func (w *DirWatcher) Start() {
	ticker := time.NewTicker(w.interval)
	go func() {
		defer ticker.Stop()
		w.scan(true) // prime mtime cache without firing
		for {
			select {
			case <-ticker.C:
				w.scan(false)
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the watcher.
func (w *DirWatcher) Stop() {
	close(w.stopCh)
}

func (w *DirWatcher) scan(prime bool) {
	seen := make(map[string]bool, len(w.lastMTime))
	changed := false

	ents, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}
	for _, e := range ents {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		p := filepath.Join(w.dir, e.Name())
		fi, err := e.Info()
		if err != nil {
			continue
		}
		seen[p] = true
		last, ok := w.lastMTime[p]
		if !ok {
			w.lastMTime[p] = fi.ModTime()
			if !prime {
				changed = true
			}
			continue
		}
		if fi.ModTime().After(last) {
			w.lastMTime[p] = fi.ModTime()
			changed = true
		}
	}
	// removals count as changes too
	for p := range w.lastMTime {
		if !seen[p] {
			delete(w.lastMTime, p)
			changed = true
		}
	}

	if changed && !prime && w.onChange != nil {
		slog.Debug("preset directory changed, reloading", "dir", w.dir)
		w.onChange()
	}
}
