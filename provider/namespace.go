package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jonwraymond/toolfoundation/adapter"
)

// Function is one invocable entry in a provider namespace.
type Function interface {
	Name() string
	// Invoke runs the function with named arguments. The provider owns
	// argument validation and reports shape problems as *ParameterError.
	Invoke(ctx context.Context, args map[string]any) (any, error)
}

// Namespace maps bare names to functions.
type Namespace interface {
	Lookup(name string) (Function, bool)
	// Names returns every bare name in sorted order.
	Names() []string
	Info() adapter.CanonicalProvider
}

// FuncOf adapts a plain function to Function.
func FuncOf(name string, fn func(ctx context.Context, args map[string]any) (any, error)) Function {
	return funcOf{name: name, fn: fn}
}

type funcOf struct {
	name string
	fn   func(ctx context.Context, args map[string]any) (any, error)
}

func (f funcOf) Name() string { return f.name }

func (f funcOf) Invoke(ctx context.Context, args map[string]any) (any, error) {
	return f.fn(ctx, args)
}

// Static is a namespace populated in process.
type Static struct {
	info adapter.CanonicalProvider

	mu    sync.RWMutex
	funcs map[string]Function
}

// NewStatic creates an empty static namespace.
func NewStatic(info adapter.CanonicalProvider) *Static {
	return &Static{
		info:  info,
		funcs: make(map[string]Function),
	}
}

// Register adds functions by name.
func (s *Static) Register(fns ...Function) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fn := range fns {
		if fn == nil || strings.TrimSpace(fn.Name()) == "" {
			return ErrInvalidFunction
		}
		if _, exists := s.funcs[fn.Name()]; exists {
			return fmt.Errorf("%w: %s", ErrFunctionExists, fn.Name())
		}
		s.funcs[fn.Name()] = fn
	}
	return nil
}

// Lookup implements Namespace.
func (s *Static) Lookup(name string) (Function, bool) {
	s.mu.RLock()
	fn, ok := s.funcs[name]
	s.mu.RUnlock()
	return fn, ok
}

// Names implements Namespace.
func (s *Static) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.funcs))
	for name := range s.funcs {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Info implements Namespace.
func (s *Static) Info() adapter.CanonicalProvider {
	return s.info
}

// CheckArgs returns a *ParameterError naming every argument not in allowed.
func CheckArgs(function string, args map[string]any, allowed ...string) error {
	known := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		known[a] = struct{}{}
	}
	var unknown []string
	for k := range args {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return &ParameterError{
		Function: function,
		Details:  "unexpected argument(s): " + strings.Join(unknown, ", "),
	}
}

// StringArg returns args[name] as a string, def when absent. A present
// value that is not a string is a *ParameterError.
func StringArg(function string, args map[string]any, name, def string) (string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &ParameterError{
			Function: function,
			Details:  fmt.Sprintf("argument %q must be a string, got %T", name, v),
		}
	}
	return s, nil
}
