package lang

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/lexers"
)

// Registry indexes language definitions by name and by extension.
// Lookups that miss the configured definitions fall back to chroma's
// lexer database, so common file types are identified even with an
// empty definitions directory.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Language
	byExt  map[string]string // normalized extension -> language name
}

// NewRegistry creates an empty language registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Language),
		byExt:  make(map[string]string),
	}
}

// Add installs (or overwrites) a definition and indexes its extensions.
func (r *Registry) Add(l Language) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(l)
}

func (r *Registry) add(l Language) {
	def := l
	r.byName[def.Name] = &def
	for _, ext := range def.Extensions {
		r.byExt[normalizeExt(ext)] = def.Name
	}
}

// Replace swaps the registry contents for the given definitions in one
// step, used by the hot-reload watcher.
func (r *Registry) Replace(defs []Language) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byName = make(map[string]*Language, len(defs))
	r.byExt = make(map[string]string)
	for _, l := range defs {
		r.add(l)
	}
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (*Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.byName[name]
	return l, ok
}

// LookupExtension returns the language name configured for ext, or ""
// when no definition and no chroma lexer claims it.
func (r *Registry) LookupExtension(ext string) string {
	key := normalizeExt(ext)
	if key == "" {
		return ""
	}

	r.mu.RLock()
	name, ok := r.byExt[key]
	r.mu.RUnlock()
	if ok {
		return name
	}

	if lexer := lexers.Match("file." + key); lexer != nil {
		return strings.ToLower(lexer.Config().Name)
	}
	return ""
}

// DetectPath returns the language name for a file path, or "" when the
// path's extension is unknown.
func (r *Registry) DetectPath(path string) string {
	return r.LookupExtension(filepath.Ext(path))
}

// Names returns the configured language names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of configured definitions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
