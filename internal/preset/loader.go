package preset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/xtding233/pull-estimator/internal/gacha"
)

// ErrNotFound is returned when a named preset file does not exist.
var ErrNotFound = errors.New("preset not found")

// Loader reads YAML presets and merges default.yaml under a named preset.
type Loader struct {
	dir string

	mu    sync.RWMutex
	cache map[string]gacha.Config
}

// NewLoader creates a loader rooted at dir (the directory holding
// default.yaml and the named preset files).
func NewLoader(dir string) *Loader {
	return &Loader{
		dir:   dir,
		cache: make(map[string]gacha.Config),
	}
}

func (l *Loader) defaultPath() string { return filepath.Join(l.dir, "default.yaml") }

func (l *Loader) presetPath(name string) string { return filepath.Join(l.dir, name+".yaml") }

// Load resolves a named preset into engine parameters: default.yaml is
// read first (missing is fine), the named file layered on top, the result
// normalized and cached. name "" loads the defaults alone.
func (l *Loader) Load(name string) (gacha.Config, error) {
	l.mu.RLock()
	if cfg, ok := l.cache[name]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	def, err := readYAML(l.defaultPath(), true)
	if err != nil {
		return gacha.Config{}, fmt.Errorf("read default preset: %w", err)
	}
	merged := def
	if name != "" {
		named, err := readYAML(l.presetPath(name), false)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return gacha.Config{}, fmt.Errorf("%w: %s", ErrNotFound, name)
			}
			return gacha.Config{}, fmt.Errorf("read preset %s: %w", name, err)
		}
		merged = merge(def, named)
	}

	cfg, err := Normalize(merged)
	if err != nil {
		return gacha.Config{}, fmt.Errorf("preset %q: %w", name, err)
	}

	l.mu.Lock()
	l.cache[name] = cfg
	l.mu.Unlock()
	return cfg, nil
}

// List returns the available preset names, sorted, default excluded.
func (l *Loader) List() ([]string, error) {
	ents, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range ents {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".yaml")
		if name == "default" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Invalidate clears the cache. Called by the watcher on file changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]gacha.Config)
}

// readYAML loads one preset file. With optional set, a missing file
// yields a zero Raw and no error.
func readYAML(path string, optional bool) (Raw, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return Raw{}, nil
		}
		return Raw{}, err
	}
	var raw Raw
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return Raw{}, err
	}
	return raw, nil
}
