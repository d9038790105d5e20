package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownEntry is returned for entry names without a source mapping or a
// manifest chunk.
var ErrUnknownEntry = errors.New("assets: unknown entry")

const (
	hotFile          = "hot"
	viteClientScript = "@vite/client"
)

// manifestPaths lists where Vite writes its manifest: Vite 5 and later nest it
// under .vite/.
var manifestPaths = []string{".vite/manifest.json", "manifest.json"}

// DefaultEntries maps entry names to the source files Vite bundles them from.
func DefaultEntries() map[string]string {
	return map[string]string{
		"settings": "resources/js/settings/index.tsx",
		"editor":   "resources/js/editor/index.tsx",
		"frontend": "resources/js/frontend/index.ts",
	}
}

// Chunk is one record of the Vite build manifest.
type Chunk struct {
	File           string   `json:"file"`
	Name           string   `json:"name,omitempty"`
	Src            string   `json:"src,omitempty"`
	IsEntry        bool     `json:"isEntry,omitempty"`
	IsDynamicEntry bool     `json:"isDynamicEntry,omitempty"`
	Imports        []string `json:"imports,omitempty"`
	DynamicImports []string `json:"dynamicImports,omitempty"`
	CSS            []string `json:"css,omitempty"`
	Assets         []string `json:"assets,omitempty"`
}

// Manifest is the decoded build manifest keyed by source path or chunk id.
type Manifest map[string]Chunk

// Entry lists the tags needed to boot one frontend entry point.
type Entry struct {
	Name     string   `json:"name"`
	Dev      bool     `json:"dev"`
	Scripts  []string `json:"scripts"`
	Styles   []string `json:"styles"`
	Preloads []string `json:"preloads,omitempty"`
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithBaseURL sets the public URL the build directory is served from.
func WithBaseURL(base string) Option {
	return func(r *Resolver) {
		r.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
	}
}

// WithEntries overrides the entry name to source path mapping.
func WithEntries(entries map[string]string) Option {
	return func(r *Resolver) {
		if len(entries) == 0 {
			return
		}
		r.entries = make(map[string]string, len(entries))
		for name, src := range entries {
			r.entries[name] = src
		}
	}
}

// Resolver turns entry names into script and stylesheet URLs.
type Resolver struct {
	fsys    fs.FS
	baseURL string
	entries map[string]string

	mu       sync.RWMutex
	manifest Manifest
}

// New builds a resolver over the Vite build directory. A missing manifest is
// not an error: the resolver then only works while the dev server runs.
func New(fsys fs.FS, opts ...Option) (*Resolver, error) {
	if fsys == nil {
		return nil, errors.New("assets: build fs is required")
	}
	r := &Resolver{
		fsys:    fsys,
		baseURL: "/build",
		entries: DefaultEntries(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the build manifest, picking up a fresh production build.
func (r *Resolver) Reload() error {
	manifest, err := readManifest(r.fsys)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.manifest = manifest
	r.mu.Unlock()
	return nil
}

// Names returns the configured entry names, sorted.
func (r *Resolver) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DevServer reports the dev server origin recorded in the hot file.
func (r *Resolver) DevServer() (string, bool) {
	data, err := fs.ReadFile(r.fsys, hotFile)
	if err != nil {
		return "", false
	}
	origin := strings.TrimRight(strings.TrimSpace(string(data)), "/")
	return origin, origin != ""
}

// Entry resolves name into its script, stylesheet and preload URLs.
func (r *Resolver) Entry(name string) (Entry, error) {
	src, ok := r.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownEntry, name)
	}

	if origin, dev := r.DevServer(); dev {
		return Entry{
			Name:    name,
			Dev:     true,
			Scripts: []string{origin + "/" + viteClientScript, origin + "/" + src},
			Styles:  []string{},
		}, nil
	}

	r.mu.RLock()
	manifest := r.manifest
	r.mu.RUnlock()

	chunk, ok := manifest[src]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q has no chunk for %s in the build manifest", ErrUnknownEntry, name, src)
	}

	entry := Entry{
		Name:    name,
		Scripts: []string{r.url(chunk.File)},
		Styles:  []string{},
	}
	seen := map[string]bool{src: true}
	var collect func(Chunk, bool)
	collect = func(c Chunk, root bool) {
		for _, css := range c.CSS {
			entry.Styles = appendUnique(entry.Styles, r.url(css))
		}
		if !root {
			entry.Preloads = appendUnique(entry.Preloads, r.url(c.File))
		}
		for _, key := range c.Imports {
			if seen[key] {
				continue
			}
			seen[key] = true
			if imported, ok := manifest[key]; ok {
				collect(imported, false)
			}
		}
	}
	collect(chunk, true)
	return entry, nil
}

func (r *Resolver) url(file string) string {
	return r.baseURL + "/" + strings.TrimLeft(file, "/")
}

func readManifest(fsys fs.FS) (Manifest, error) {
	for _, candidate := range manifestPaths {
		data, err := fs.ReadFile(fsys, candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("assets: read %s: %w", candidate, err)
		}
		var manifest Manifest
		if err := json.Unmarshal(data, &manifest); err != nil {
			return nil, fmt.Errorf("assets: decode %s: %w", candidate, err)
		}
		return manifest, nil
	}
	return Manifest{}, nil
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
