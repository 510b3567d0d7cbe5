package provider

import (
	"sort"
	"sync"

	"github.com/jonwraymond/toolfoundation/adapter"
)

// Store holds several namespaces and resolves names across them. It is
// itself a Namespace: lookups try each namespace in ID order and the first
// one that has the name wins.
type Store struct {
	mu         sync.RWMutex
	namespaces map[string]Namespace
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		namespaces: make(map[string]Namespace),
	}
}

// ProviderID returns a stable provider ID from name/version.
func ProviderID(name, version string) string {
	if name == "" {
		return ""
	}
	if version == "" {
		return name
	}
	return name + ":" + version
}

// Add registers a namespace and returns its resolved ID. An empty id is
// derived from the namespace's provider info.
func (s *Store) Add(id string, ns Namespace) (string, error) {
	if ns == nil || ns.Info().Name == "" {
		return "", ErrInvalidProvider
	}
	if id == "" {
		info := ns.Info()
		id = ProviderID(info.Name, info.Version)
	}
	if id == "" {
		return "", ErrInvalidProviderID
	}

	s.mu.Lock()
	s.namespaces[id] = ns
	s.mu.Unlock()

	return id, nil
}

// DescribeProvider returns a namespace's provider info by ID.
func (s *Store) DescribeProvider(id string) (adapter.CanonicalProvider, error) {
	if id == "" {
		return adapter.CanonicalProvider{}, ErrInvalidProviderID
	}

	s.mu.RLock()
	ns, ok := s.namespaces[id]
	s.mu.RUnlock()

	if !ok {
		return adapter.CanonicalProvider{}, ErrNotFound
	}
	return ns.Info(), nil
}

// ListProviders returns provider info for every namespace in ID order.
func (s *Store) ListProviders() []adapter.CanonicalProvider {
	ordered := s.ordered()
	result := make([]adapter.CanonicalProvider, 0, len(ordered))
	for _, ns := range ordered {
		result = append(result, ns.Info())
	}
	return result
}

// Lookup implements Namespace.
func (s *Store) Lookup(name string) (Function, bool) {
	for _, ns := range s.ordered() {
		if fn, ok := ns.Lookup(name); ok {
			return fn, true
		}
	}
	return nil, false
}

// Names implements Namespace.
func (s *Store) Names() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, ns := range s.ordered() {
		for _, name := range ns.Names() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Info implements Namespace.
func (s *Store) Info() adapter.CanonicalProvider {
	return adapter.CanonicalProvider{
		Name:        "store",
		Description: "functions resolved across registered providers",
	}
}

func (s *Store) ordered() []Namespace {
	s.mu.RLock()
	ids := make([]string, 0, len(s.namespaces))
	for id := range s.namespaces {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Namespace, len(ids))
	for i, id := range ids {
		out[i] = s.namespaces[id]
	}
	s.mu.RUnlock()
	return out
}
