package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tidwall/jsonc"
	"golang.org/x/sync/semaphore"

	"github.com/jonwraymond/docregistry/calllog"
	"github.com/jonwraymond/docregistry/dispatch"
	"github.com/jonwraymond/docregistry/index"
	"github.com/jonwraymond/docregistry/provider"
	"github.com/jonwraymond/docregistry/tooldoc"
)

// Defaults applied by New.
const (
	DefaultSearchLimit = 20
	DefaultHistorySize = 200
)

// ServerInfo describes this MCP server for the initialize response.
type ServerInfo struct {
	Name    string
	Version string
}

// Options configures a Registry.
type Options struct {
	// DocsFS is the documentation source. Nil leaves the catalog empty.
	DocsFS fs.FS
	// DocsRoot is the directory within DocsFS holding the documents.
	// Default: ".".
	DocsRoot string
	// Prefix is the canonical ID prefix. Default: tooldoc.DefaultPrefix.
	Prefix string
	// Markers override the documentation block grammar.
	Markers tooldoc.Markers
	// ParseConcurrency bounds concurrent document reads.
	ParseConcurrency int

	// Provider is the function namespace calls are dispatched to.
	Provider provider.Namespace
	// Ranker optionally orders search matches. Nil keeps ID order.
	Ranker index.Ranker

	// MaxRows bounds tabular call results.
	MaxRows int
	// SearchLimit is the limit used when a search asks for none.
	SearchLimit int
	// MaxConcurrentCalls bounds in-flight provider calls. Zero means
	// unbounded.
	MaxConcurrentCalls int64

	// HistorySize is the number of records kept for Logs.
	HistorySize int
	// Sink receives every record in addition to the history.
	Sink calllog.Sink

	ServerInfo ServerInfo
	Logger     *slog.Logger
}

// Registry is a documentation-derived function registry.
type Registry struct {
	opts    Options
	logger  *slog.Logger
	history *calllog.Ring
	sink    calllog.Sink
	sem     *semaphore.Weighted

	initMu     sync.Mutex
	inited     atomic.Bool
	initErr    error
	parsed     tooldoc.Result
	catalog    *index.Catalog
	index      *index.KeywordIndex
	dispatcher *dispatch.Dispatcher
}

// New creates a Registry. Nothing is parsed until Initialize or the first
// Search or Call.
func New(opts Options) *Registry {
	if opts.Prefix == "" {
		opts.Prefix = tooldoc.DefaultPrefix
	}
	if opts.DocsRoot == "" {
		opts.DocsRoot = "."
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = DefaultSearchLimit
	}
	if opts.HistorySize <= 0 {
		opts.HistorySize = DefaultHistorySize
	}
	if opts.ServerInfo.Name == "" {
		opts.ServerInfo.Name = "docregistry"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{
		opts:    opts,
		logger:  logger,
		history: calllog.NewRing(opts.HistorySize),
	}
	r.sink = calllog.Multi(r.history, opts.Sink)
	if opts.MaxConcurrentCalls > 0 {
		r.sem = semaphore.NewWeighted(opts.MaxConcurrentCalls)
	}
	return r
}

// Initialize parses the documentation source and builds the catalog and
// index. Only the first completed call does any work; later and concurrent
// calls wait for it and return its error.
//
// An unavailable documentation source is logged and leaves the catalog
// empty; it is not an error. A build cut short by ctx is not kept, so the
// next call parses again.
func (r *Registry) Initialize(ctx context.Context) error {
	if r.inited.Load() {
		return r.initErr
	}
	r.initMu.Lock()
	defer r.initMu.Unlock()
	if r.inited.Load() {
		return r.initErr
	}

	err := r.build(ctx)
	if err != nil && ctx.Err() != nil {
		return err
	}
	r.initErr = err
	r.inited.Store(true)
	return err
}

func (r *Registry) build(ctx context.Context) error {
	start := time.Now()

	if r.opts.DocsFS == nil {
		r.logger.Warn("registry: no documentation source configured")
	} else {
		parser := tooldoc.NewParser(tooldoc.Options{
			Prefix:      r.opts.Prefix,
			Markers:     r.opts.Markers,
			Logger:      r.logger,
			Concurrency: r.opts.ParseConcurrency,
		})
		parsed, err := parser.ParseFS(ctx, r.opts.DocsFS, r.opts.DocsRoot)
		switch {
		case errors.Is(err, tooldoc.ErrSourceUnavailable):
			r.logger.Warn("registry: documentation source unavailable", "root", r.opts.DocsRoot, "err", err)
		case err != nil:
			r.catalog = index.NewCatalog(r.opts.Prefix, nil)
			r.finish()
			return fmt.Errorf("parse documentation: %w", err)
		default:
			r.parsed = parsed
		}
	}

	r.catalog = index.NewCatalog(r.opts.Prefix, r.parsed.Records())
	for _, c := range r.catalog.Collisions() {
		r.logger.Warn("registry: canonical id collision, later record wins",
			"id", c.ID, "replaced", c.Replaced, "kept", c.Kept)
	}
	r.finish()

	r.logger.Info("registry: initialized",
		"records", r.catalog.Len(),
		"keywords", r.index.Len(),
		"categories", len(r.catalog.Categories()),
		"collisions", len(r.catalog.Collisions()),
		"skipped_blocks", r.parsed.Skipped(),
		"unreadable", len(r.parsed.Unreadable),
		"duration", time.Since(start))
	return nil
}

func (r *Registry) finish() {
	r.index = index.NewKeywordIndex(r.catalog, index.IndexOptions{
		Ranker: r.opts.Ranker,
		Logger: r.logger,
	})
	r.dispatcher = dispatch.New(r.catalog, r.opts.Provider, dispatch.Options{
		MaxRows: r.opts.MaxRows,
		Logger:  r.logger,
	})
}

// ensure initializes on behalf of a request. The build outlives the request
// context so one abandoned request cannot leave the catalog empty.
func (r *Registry) ensure(ctx context.Context) {
	if err := r.Initialize(context.WithoutCancel(ctx)); err != nil {
		r.logger.Debug("registry: serving after failed initialization", "err", err)
	}
}

// Catalog returns the catalog, initializing the registry if needed.
func (r *Registry) Catalog(ctx context.Context) *index.Catalog {
	r.ensure(ctx)
	return r.catalog
}

// Get returns the record with exactly the given canonical ID.
func (r *Registry) Get(ctx context.Context, id string) (tooldoc.Record, bool) {
	r.ensure(ctx)
	return r.catalog.Get(id)
}

// Search returns up to limit records matching every token of keyword.
// A limit of zero or less uses the configured default.
func (r *Registry) Search(ctx context.Context, keyword string, limit int) index.Results {
	r.ensure(ctx)
	if limit <= 0 {
		limit = r.opts.SearchLimit
	}

	rec := calllog.New(calllog.KindSearch, time.Now())
	rec.Keyword = keyword
	rec.Limit = limit

	results := r.index.Search(keyword, limit)

	rec.Finish(time.Now())
	rec.Success = true
	rec.ResultCount = calllog.Count(len(results))
	r.sink.Emit(ctx, rec)
	return results
}

// Call dispatches ref with args and returns the classified outcome.
//
// The provider runs on its own goroutine. When ctx ends first the caller
// gets an UnknownError outcome and the provider call finishes in the
// background.
func (r *Registry) Call(ctx context.Context, ref string, args map[string]any) dispatch.Outcome {
	r.ensure(ctx)

	rec := calllog.New(calllog.KindCall, time.Now())
	rec.Function = ref
	rec.Params = args

	out := r.invoke(ctx, ref, args)
	r.emitCall(ctx, rec, out)
	return out
}

// CallJSON is Call with arguments given as a JSON object. Comments and
// trailing commas are accepted; an empty string means no arguments.
func (r *Registry) CallJSON(ctx context.Context, ref, params string) dispatch.Outcome {
	args, err := DecodeArgs(params)
	if err != nil {
		return r.reject(ctx, ref, err)
	}
	return r.Call(ctx, ref, args)
}

// reject records a call whose arguments could not be decoded.
func (r *Registry) reject(ctx context.Context, ref string, err error) dispatch.Outcome {
	r.ensure(ctx)
	rec := calllog.New(calllog.KindCall, time.Now())
	rec.Function = ref
	out := dispatch.Malformed(ref, err)
	r.emitCall(ctx, rec, out)
	return out
}

// DecodeArgs decodes a JSON object of call arguments. Decode failures wrap
// ErrInvalidRequest.
func DecodeArgs(params string) (map[string]any, error) {
	if strings.TrimSpace(params) == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal(jsonc.ToJSON([]byte(params)), &args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

func (r *Registry) invoke(ctx context.Context, ref string, args map[string]any) dispatch.Outcome {
	if r.sem != nil {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			return dispatch.Unknown(ref, fmt.Errorf("waiting for a call slot: %w", err))
		}
	}

	done := make(chan dispatch.Outcome, 1)
	go func() {
		if r.sem != nil {
			defer r.sem.Release(1)
		}
		done <- r.dispatcher.Call(context.WithoutCancel(ctx), ref, args)
	}()

	select {
	case out := <-done:
		return out
	case <-ctx.Done():
		r.logger.Warn("registry: caller gave up on call", "function", ref, "err", ctx.Err())
		return dispatch.Unknown(ref, fmt.Errorf("call abandoned: %w", ctx.Err()))
	}
}

func (r *Registry) emitCall(ctx context.Context, rec calllog.Record, out dispatch.Outcome) {
	rec.Finish(time.Now())
	if out.OK() {
		rec.Success = true
		if n, ok := out.Rows(); ok {
			rec.ResultRows = calllog.Count(n)
		}
		if msg, ok := out.ReturnedError(); ok {
			rec.Fail(dispatch.ReturnedErrorType, msg)
		}
	} else {
		rec.Fail(out.Kind.String(), out.Message)
	}
	r.sink.Emit(ctx, rec)
}

// Logs returns up to limit recorded operations of the given kind, newest
// first. An empty kind returns every kind.
func (r *Registry) Logs(kind string, limit int) []calllog.Record {
	return r.history.Filter(kind, limit)
}

// Stats describes the built catalog and the held history.
type Stats struct {
	Records       int      `json:"records" yaml:"records"`
	Keywords      int      `json:"keywords" yaml:"keywords"`
	Collisions    int      `json:"collisions" yaml:"collisions"`
	SkippedBlocks int      `json:"skipped_blocks" yaml:"skipped_blocks"`
	Unreadable    []string `json:"unreadable,omitempty" yaml:"unreadable,omitempty"`
	Categories    []string `json:"categories" yaml:"categories"`
	Fingerprint   string   `json:"fingerprint" yaml:"fingerprint"`
	// History is the number of search and call records held for Logs.
	History       int      `json:"history" yaml:"history"`
}

// Stats returns registry statistics, initializing it if needed.
func (r *Registry) Stats(ctx context.Context) Stats {
	r.ensure(ctx)
	return Stats{
		Records:       r.catalog.Len(),
		Keywords:      r.index.Len(),
		Collisions:    len(r.catalog.Collisions()),
		SkippedBlocks: r.parsed.Skipped(),
		Unreadable:    append([]string(nil), r.parsed.Unreadable...),
		Categories:    r.catalog.Categories(),
		Fingerprint:   r.catalog.Fingerprint(),
		History:       r.history.Len(),
	}
}
