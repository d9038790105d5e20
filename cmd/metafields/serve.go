package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-metafields/components/settingsapi"
	"github.com/goliatone/go-metafields/pkg/assets"
	"github.com/goliatone/go-metafields/pkg/catalog"
	"github.com/goliatone/go-metafields/pkg/meta"
	"github.com/goliatone/go-metafields/pkg/render"
	"github.com/goliatone/go-metafields/pkg/settings"
)

const (
	buildURL        = "/build"
	shutdownTimeout = 10 * time.Second
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the settings REST API and admin pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(a.cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			handler, err := buildServer(a.cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return listen(ctx, a.cfg.Addr, handler, logger)
		},
	}
}

func listen(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// buildServer wires the declarations, settings registry, REST component and
// admin page renderer into one router.
func buildServer(cfg *Config, logger *zap.Logger) (http.Handler, error) {
	set, source, err := loadDeclarations(cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("serve %s: %w", source, err)
	}
	registry, err := settings.NewRegistry(set.Settings...)
	if err != nil {
		return nil, err
	}
	registry.OnChange(func(_ context.Context, changed []string, _ map[string]any) {
		logger.Debug("settings changed", zap.Strings("keys", changed))
	})

	resolver, err := assets.New(os.DirFS(cfg.BuildDir), assets.WithBaseURL(buildURL))
	if err != nil {
		return nil, err
	}
	renderOpts := []render.Option{render.WithAssets(&lenientAssets{resolver: resolver, logger: logger})}
	if cfg.Theme != "" {
		manifest, err := loadThemeManifest(cfg.Theme)
		if err != nil {
			return nil, err
		}
		selector, err := render.NewManifestSelector(manifest)
		if err != nil {
			return nil, err
		}
		renderOpts = append(renderOpts, render.WithThemeSelector(selector, manifest.Name, cfg.ThemeVariant))
	}
	renderer, err := render.New(renderOpts...)
	if err != nil {
		return nil, err
	}

	component := settingsapi.New(
		settingsapi.WithBasePath(cfg.BasePath),
		settingsapi.WithTitle("metafields", Version),
		settingsapi.WithLogger(logger),
		settingsapi.WithRegistry(registry),
		settingsapi.WithCatalog(set.Fields),
	)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if _, err := component.RegisterRoutes(r); err != nil {
		return nil, err
	}
	restBase := settingsapi.MountPath(component.Options().BasePath)

	pages := &pageHandler{renderer: renderer, registry: registry, fields: set.Fields, restBase: restBase, logger: logger}
	r.Get("/admin/settings", pages.settings)
	r.Get("/admin/editor", pages.editor)
	r.Handle(buildURL+"/*", http.StripPrefix(buildURL, http.FileServer(http.Dir(cfg.BuildDir))))

	logger.Info("declarations loaded",
		zap.String("source", source),
		zap.Int("fields", set.Fields.Len()),
		zap.Int("settings", len(set.Settings)),
		zap.Bool("vite_dev", isDev(resolver)),
	)
	return r, nil
}

type pageHandler struct {
	renderer *render.Renderer
	registry *settings.Registry
	fields   *catalog.Catalog
	restBase string
	logger   *zap.Logger
}

func (h *pageHandler) settings(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, render.Page{
		Title:    "Settings",
		Entry:    "settings",
		RestBase: h.restBase,
		Fields:   h.registry.UIConfigs(),
		Values:   h.registry.RestValues(),
	})
}

func (h *pageHandler) editor(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	objectType, err := meta.ParseObjectType(query.Get("objectType"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.write(w, r, render.Page{
		Title:    "Editor",
		Entry:    "editor",
		RestBase: h.restBase,
		Fields:   h.fields.UIConfigs(objectType, query.Get("subtype")),
	})
}

func (h *pageHandler) write(w http.ResponseWriter, r *http.Request, page render.Page) {
	out, err := h.renderer.Render(r.Context(), page)
	if err != nil {
		h.logger.Error("render page", zap.String("entry", page.Entry), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", h.renderer.ContentType())
	_, _ = w.Write(out)
}

// lenientAssets renders pages without asset tags when the frontend has not
// been built yet.
type lenientAssets struct {
	resolver *assets.Resolver
	logger   *zap.Logger
}

func (l *lenientAssets) Entry(name string) (assets.Entry, error) {
	entry, err := l.resolver.Entry(name)
	if errors.Is(err, assets.ErrUnknownEntry) {
		l.logger.Warn("frontend entry not built", zap.String("entry", name))
		return assets.Entry{Name: name, Scripts: []string{}, Styles: []string{}}, nil
	}
	return entry, err
}

func isDev(resolver *assets.Resolver) bool {
	_, ok := resolver.DevServer()
	return ok
}

func loadThemeManifest(path string) (*theme.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("theme manifest: %w", err)
	}
	var manifest theme.Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("theme manifest %s: %w", path, err)
	}
	if manifest.Name == "" {
		return nil, fmt.Errorf("theme manifest %s: name is required", path)
	}
	return &manifest, nil
}
