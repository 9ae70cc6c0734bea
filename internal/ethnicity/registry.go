package ethnicity

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"ethnicityfacts/domain/core"
	"ethnicityfacts/internal"
	"ethnicityfacts/internal/config"
	apperrors "ethnicityfacts/internal/errors"
)

// Registry holds the named lookups a deployment offers.
type Registry struct {
	mu      sync.RWMutex
	lookups map[string]*DictionaryLookup
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{lookups: make(map[string]*DictionaryLookup)}
}

// Register adds or replaces a lookup under name
func (r *Registry) Register(name string, lookup *DictionaryLookup) error {
	if name == "" {
		return apperrors.InvalidInput("lookup name is required")
	}
	if lookup == nil {
		return apperrors.InvalidInput(fmt.Sprintf("lookup %q is nil", name))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups[name] = lookup
	return nil
}

// Get returns the lookup registered under name
func (r *Registry) Get(name string) (*DictionaryLookup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lookup, ok := r.lookups[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrLookupNotFound, name)
	}
	return lookup, nil
}

// Resolve is Get, except that an empty name selects the only registered
// lookup when there is exactly one.
func (r *Registry) Resolve(name string) (string, *DictionaryLookup, error) {
	if name != "" {
		lookup, err := r.Get(name)
		return name, lookup, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.lookups) != 1 {
		return "", nil, apperrors.InvalidInput(fmt.Sprintf("lookup name is required, %d lookups configured", len(r.lookups)))
	}
	for only, lookup := range r.lookups {
		return only, lookup, nil
	}
	return "", nil, nil
}

// Names lists registered lookups in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.lookups))
	for name := range r.lookups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildRegistry loads every lookup in the catalogue. Relative reference paths
// are resolved against baseDir.
func BuildRegistry(lookups []config.LookupConfig, baseDir string) (*Registry, error) {
	logger := internal.DefaultLogger.WithPrefix("Lookups")
	registry := NewRegistry()

	for _, lc := range lookups {
		path := lc.Reference
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}

		opts := []Option{WithWildcard(lc.Wildcard)}
		if len(lc.Defaults) > 0 {
			opts = append(opts, WithDefaultValues(ParseDefaultValues(lc.Defaults, lc.Wildcard)...))
		}

		lookup, err := NewDictionaryLookupFromFile(path, opts...)
		if err != nil {
			return nil, apperrors.Wrapf(err, "failed to load lookup %q", lc.Name)
		}
		if err := registry.Register(lc.Name, lookup); err != nil {
			return nil, err
		}
		logger.Info("loaded %s from %s (%d entries, %d output columns)", lc.Name, path, lookup.Len(), len(lookup.OutputColumns()))
	}

	return registry, nil
}
