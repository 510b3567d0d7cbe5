// Package dependency wires docregistry services using go.uber.org/dig.
package dependency

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.uber.org/dig"

	"github.com/jonwraymond/docregistry/calllog"
	"github.com/jonwraymond/docregistry/config"
	"github.com/jonwraymond/docregistry/index"
	"github.com/jonwraymond/docregistry/provider"
	"github.com/jonwraymond/docregistry/registry"
	"github.com/jonwraymond/docregistry/search"
)

// Container holds the resolved service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	logger   *slog.Logger
	store    *provider.Store
	registry *registry.Registry
	closers  []io.Closer
}

func (c *Container) Logger() *slog.Logger         { return c.logger }
func (c *Container) Providers() *provider.Store   { return c.store }
func (c *Container) Registry() *registry.Registry { return c.registry }

// Close releases the provider sessions, the ranker and the call log file.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Version is a named string type so dig can distinguish the build version
// from other strings.
type Version string

// Extra holds namespaces supplied by the embedding program, searched after
// the configured remote provider.
type Extra []provider.Namespace

// New builds and wires all services from cfg. Remote providers are
// connected using ctx.
func New(ctx context.Context, cfg *config.Config, version string, extra ...provider.Namespace) (*Container, error) {
	d := dig.New()
	var closers []io.Closer
	track := func(c io.Closer) { closers = append(closers, c) }

	provides := []any{
		func() *config.Config { return cfg },
		func() Version { return Version(version) },
		func() Extra { return extra },
		newLogger,
		func(cfg *config.Config, logger *slog.Logger, extra Extra) (*provider.Store, error) {
			return newStore(ctx, cfg, logger, extra, track)
		},
		func(cfg *config.Config) index.Ranker { return newRanker(cfg, track) },
		func(cfg *config.Config, logger *slog.Logger) (calllog.Sink, error) {
			return newSink(cfg, logger, track)
		},
		newRegistry,
	}
	for _, p := range provides {
		if err := d.Provide(p); err != nil {
			return nil, err
		}
	}

	var result *Container
	err := d.Invoke(func(logger *slog.Logger, store *provider.Store, reg *registry.Registry) {
		result = &Container{
			logger:   logger,
			store:    store,
			registry: reg,
		}
	})
	if err != nil {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
		return nil, err
	}
	result.closers = closers
	return result, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return config.NewLogger(cfg.Log)
}

func newStore(ctx context.Context, cfg *config.Config, logger *slog.Logger, extra Extra, track func(io.Closer)) (*provider.Store, error) {
	store := provider.NewStore()

	if cfg.Provider.URL != "" {
		remote := provider.NewMCPNamespace(provider.MCPConfig{
			Name:       cfg.Provider.Name,
			URL:        cfg.Provider.URL,
			Headers:    cfg.Provider.Headers,
			MaxRetries: cfg.Provider.MaxRetries,
		})
		if err := remote.Connect(ctx); err != nil {
			return nil, fmt.Errorf("provider %s: %w", cfg.Provider.Name, err)
		}
		track(remote)
		// "0-" sorts the remote ahead of embedded namespaces.
		if _, err := store.Add("0-"+cfg.Provider.Name, remote); err != nil {
			return nil, err
		}
		logger.Info("dependency: provider connected", "name", cfg.Provider.Name, "functions", len(remote.Names()))
	}

	for _, ns := range extra {
		if ns == nil {
			continue
		}
		if _, err := store.Add("", ns); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func newRanker(cfg *config.Config, track func(io.Closer)) index.Ranker {
	if cfg.Ranking != "bm25" {
		return nil
	}
	r := search.NewBleveRanker(search.BM25Config{})
	track(r)
	return r
}

func newSink(cfg *config.Config, logger *slog.Logger, track func(io.Closer)) (calllog.Sink, error) {
	debug := calllog.NewSlogSink(logger)
	debug.Level = slog.LevelDebug
	if cfg.Log.CallFile == "" {
		return debug, nil
	}

	f, err := os.OpenFile(cfg.Log.CallFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open call log: %w", err)
	}
	track(f)
	return calllog.Multi(debug, calllog.NewSlogSink(slog.New(slog.NewJSONHandler(f, nil)))), nil
}

func newRegistry(cfg *config.Config, version Version, logger *slog.Logger, store *provider.Store, ranker index.Ranker, sink calllog.Sink) *registry.Registry {
	return registry.New(registry.Options{
		DocsFS:             os.DirFS(cfg.DocsDir),
		Prefix:             cfg.Prefix,
		Markers:            cfg.Markers,
		ParseConcurrency:   cfg.ParseConcurrency,
		Provider:           store,
		Ranker:             ranker,
		MaxRows:            cfg.MaxRows,
		SearchLimit:        cfg.SearchLimit,
		MaxConcurrentCalls: cfg.MaxConcurrentCalls,
		HistorySize:        cfg.HistorySize,
		Sink:               sink,
		ServerInfo:         registry.ServerInfo{Name: "docregistry", Version: string(version)},
		Logger:             logger,
	})
}
