package render

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-metafields/pkg/assets"
	"github.com/goliatone/go-metafields/pkg/meta"
	rendertemplate "github.com/goliatone/go-metafields/pkg/render/template"
)

const templateName = "templates/page.tpl"

// AssetResolver resolves a frontend entry point into its tags. *assets.Resolver
// satisfies it.
type AssetResolver interface {
	Entry(name string) (assets.Entry, error)
}

// Page describes one admin mount page.
type Page struct {
	Title string
	// Entry is the frontend entry point to boot, e.g. "settings" or "editor".
	Entry string
	// MountID defaults to "metafields-<entry>".
	MountID  string
	Lang     string
	RestBase string
	Fields   []meta.UIConfig
	Values   map[string]any

	Theme        string
	ThemeVariant string
}

// Option customises the renderer configuration.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	assets           AssetResolver
	selector         theme.ThemeSelector
	defaultTheme     string
	defaultVariant   string
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// templates/page.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithAssets sets the resolver used for script and stylesheet tags. Without
// one, pages render without asset tags.
func WithAssets(resolver AssetResolver) Option {
	return func(cfg *config) {
		cfg.assets = resolver
	}
}

// WithThemeSelector enables go-theme tokens. Pages that do not name a theme
// fall back to defaultTheme/defaultVariant.
func WithThemeSelector(selector theme.ThemeSelector, defaultTheme, defaultVariant string) Option {
	return func(cfg *config) {
		cfg.selector = selector
		cfg.defaultTheme = defaultTheme
		cfg.defaultVariant = defaultVariant
	}
}

// Renderer turns a Page into an HTML document.
type Renderer struct {
	templates      rendertemplate.TemplateRenderer
	assets         AssetResolver
	selector       theme.ThemeSelector
	defaultTheme   string
	defaultVariant string
}

// New constructs a renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	templates := cfg.templateRenderer
	if templates == nil {
		if _, err := fs.Stat(cfg.templateFS, templateName); err != nil {
			return nil, fmt.Errorf("render: template %s: %w", templateName, err)
		}
		engine, err := rendertemplate.New(
			rendertemplate.WithFS(cfg.templateFS),
			rendertemplate.WithExtension(".tpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("render: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{
		templates:      templates,
		assets:         cfg.assets,
		selector:       cfg.selector,
		defaultTheme:   cfg.defaultTheme,
		defaultVariant: cfg.defaultVariant,
	}, nil
}

// ContentType returns the MIME type for generated documents.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the page document.
func (r *Renderer) Render(ctx context.Context, page Page) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r == nil || r.templates == nil {
		return nil, errors.New("render: renderer is not configured")
	}

	entry := strings.TrimSpace(page.Entry)
	if entry == "" {
		entry = "settings"
	}
	mountID := strings.TrimSpace(page.MountID)
	if mountID == "" {
		mountID = "metafields-" + entry
	}
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	tags := assets.Entry{Name: entry, Scripts: []string{}, Styles: []string{}}
	if r.assets != nil {
		resolved, err := r.assets.Entry(entry)
		if err != nil {
			return nil, fmt.Errorf("render: resolve assets: %w", err)
		}
		tags = resolved
	}
	if tags.Preloads == nil {
		tags.Preloads = []string{}
	}

	themeCfg, err := r.selectTheme(page)
	if err != nil {
		return nil, err
	}

	fields := sanitizeConfigs(page.Fields)
	values := page.Values
	if values == nil {
		values = map[string]any{}
	}
	configJSON, err := json.Marshal(struct {
		RestBase string          `json:"restBase"`
		Fields   []meta.UIConfig `json:"fields"`
		Values   map[string]any  `json:"values"`
	}{RestBase: page.RestBase, Fields: fields, Values: values})
	if err != nil {
		return nil, fmt.Errorf("render: marshal page config: %w", err)
	}

	data := map[string]any{
		"page": map[string]any{
			"title":     page.Title,
			"entry":     entry,
			"mount_id":  mountID,
			"lang":      lang,
			"rest_base": page.RestBase,
		},
		"config_json": string(configJSON),
		"assets": map[string]any{
			"dev":      tags.Dev,
			"scripts":  tags.Scripts,
			"styles":   tags.Styles,
			"preloads": tags.Preloads,
		},
		"theme": buildThemeContext(themeCfg),
	}

	rendered, err := r.templates.RenderTemplate(templateName, data)
	if err != nil {
		return nil, fmt.Errorf("render: render template: %w", err)
	}
	return []byte(rendered), nil
}

func (r *Renderer) selectTheme(page Page) (*theme.RendererConfig, error) {
	if r.selector == nil {
		return nil, nil
	}
	name := page.Theme
	if name == "" {
		name = r.defaultTheme
	}
	variant := page.ThemeVariant
	if variant == "" {
		variant = r.defaultVariant
	}
	selection, err := r.selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("render: select theme %q: %w", name, err)
	}
	return RendererConfig(selection), nil
}
