package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonwraymond/docregistry/index"
	"github.com/jonwraymond/docregistry/normalize"
	"github.com/jonwraymond/docregistry/provider"
	"github.com/jonwraymond/docregistry/tooldoc"
)

// Options configures a Dispatcher.
type Options struct {
	// MaxRows bounds tabular results. Default: normalize.DefaultMaxRows.
	MaxRows int
	// Logger receives recovered panics. Default: slog.Default().
	Logger *slog.Logger
}

// Dispatcher bridges catalog records to provider functions.
type Dispatcher struct {
	catalog   *index.Catalog
	namespace provider.Namespace
	maxRows   int
	logger    *slog.Logger
}

// New creates a dispatcher over a catalog and provider namespace.
func New(catalog *index.Catalog, ns provider.Namespace, opts Options) *Dispatcher {
	d := &Dispatcher{
		catalog:   catalog,
		namespace: ns,
		maxRows:   opts.MaxRows,
		logger:    opts.Logger,
	}
	if d.maxRows <= 0 {
		d.maxRows = normalize.DefaultMaxRows
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Resolve finds the record for ref: the exact canonical ID, then ref with
// the catalog prefix prepended.
func (d *Dispatcher) Resolve(ref string) (tooldoc.Record, bool) {
	if rec, ok := d.catalog.Get(ref); ok {
		return rec, true
	}
	if p := d.catalog.Prefix(); p != "" {
		return d.catalog.Get(p + "_" + ref)
	}
	return tooldoc.Record{}, false
}

// Call resolves ref, invokes the provider function with args and returns
// the classified outcome.
func (d *Dispatcher) Call(ctx context.Context, ref string, args map[string]any) Outcome {
	rec, ok := d.Resolve(ref)
	if !ok {
		return Outcome{Kind: NotFound, Function: ref, Message: "function not found: " + ref}
	}

	var fn provider.Function
	if d.namespace != nil {
		fn, ok = d.namespace.Lookup(rec.Name)
	}
	if fn == nil || !ok {
		return Outcome{Kind: NotFound, Function: rec.ID, Message: "function not available from provider: " + rec.Name}
	}
	if args == nil {
		args = map[string]any{}
	}

	value, err := d.invoke(ctx, fn, args)
	if err != nil {
		return classify(rec.ID, err)
	}
	return Outcome{Kind: Success, Function: rec.ID, Value: normalize.Normalize(value, d.maxRows)}
}

func (d *Dispatcher) invoke(ctx context.Context, fn provider.Function, args map[string]any) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("dispatch: provider panic", "function", fn.Name(), "panic", r)
			value = nil
			err = fmt.Errorf("%w: panic: %v", ErrProviderFailed, r)
		}
	}()
	return fn.Invoke(ctx, args)
}

func classify(id string, err error) Outcome {
	var pe *provider.ParameterError
	switch {
	case errors.As(err, &pe):
		return Outcome{Kind: InvalidParameters, Function: id, Message: pe.Error(), Details: pe.Details}
	case errors.Is(err, provider.ErrInvalidParameters):
		return Outcome{Kind: InvalidParameters, Function: id, Message: err.Error(), Details: err.Error()}
	case errors.Is(err, provider.ErrUnknownFunction):
		return Outcome{Kind: NotFound, Function: id, Message: err.Error()}
	default:
		return Outcome{Kind: ProviderError, Function: id, Message: err.Error()}
	}
}
