package render

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log"
	"sync"
	"sync/atomic"
)

// TemplateRenderer executes html/template files from an fs.FS with no data.
// Parsed templates are cached by name unless reload is enabled.
type TemplateRenderer struct {
	fsys   fs.FS
	reload bool

	cache map[string]*template.Template
	mutex sync.RWMutex

	hits   atomic.Int64
	misses atomic.Int64
}

// CacheStats reports template cache usage
type CacheStats struct {
	Entries int
	Hits    int64
	Misses  int64
}

type Option func(*TemplateRenderer)

// WithReload re-parses the template on every Render call.
// Useful while editing templates on disk.
func WithReload(reload bool) Option {
	return func(tr *TemplateRenderer) {
		tr.reload = reload
	}
}

func NewTemplateRenderer(fsys fs.FS, opts ...Option) *TemplateRenderer {
	tr := &TemplateRenderer{
		fsys:  fsys,
		cache: make(map[string]*template.Template),
	}
	for _, opt := range opts {
		opt(tr)
	}
	return tr
}

// Render executes the named template into w
func (tr *TemplateRenderer) Render(w io.Writer, name string) error {
	tmpl, err := tr.get(name)
	if err != nil {
		return err
	}
	if err := tmpl.Execute(w, nil); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}
	return nil
}

// Preload parses names up front so a missing template is reported at startup
func (tr *TemplateRenderer) Preload(names ...string) error {
	for _, name := range names {
		if _, err := tr.get(name); err != nil {
			return err
		}
	}
	log.Printf("[RENDER]: preloaded %d templates (reload=%t)", len(names), tr.reload)
	return nil
}

// Stats returns the current cache counters
func (tr *TemplateRenderer) Stats() CacheStats {
	tr.mutex.RLock()
	entries := len(tr.cache)
	tr.mutex.RUnlock()
	return CacheStats{
		Entries: entries,
		Hits:    tr.hits.Load(),
		Misses:  tr.misses.Load(),
	}
}

func (tr *TemplateRenderer) get(name string) (*template.Template, error) {
	if !tr.reload {
		tr.mutex.RLock()
		tmpl, ok := tr.cache[name]
		tr.mutex.RUnlock()
		if ok {
			tr.hits.Add(1)
			return tmpl, nil
		}
	}
	tr.misses.Add(1)

	tmpl, err := tr.parse(name)
	if err != nil {
		return nil, err
	}
	if tr.reload {
		return tmpl, nil
	}

	tr.mutex.Lock()
	defer tr.mutex.Unlock()
	// another request may have parsed it meanwhile, keep the first one
	if cached, ok := tr.cache[name]; ok {
		return cached, nil
	}
	tr.cache[name] = tmpl
	return tmpl, nil
}

func (tr *TemplateRenderer) parse(name string) (*template.Template, error) {
	data, err := readTemplate(tr.fsys, name)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(name).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return tmpl, nil
}
