package singleton

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// ErrRegistryPanic is returned if resolving a holder panics internally.
var ErrRegistryPanic = errors.New("registry: panic during Resolve")

// instanceLoader is the type-erased view of a Holder used by Resolve.
type instanceLoader interface {
	loadAny() (any, bool)
}

func (h *Holder[T]) loadAny() (any, bool) {
	v, ok := h.Load()
	if !ok {
		return nil, false
	}
	return v, true
}

// Registry is an in-memory set of holders keyed by value type.
//
// It owns at most one Holder per type, so at most one instance per type.
// Holders are never removed.
type Registry struct {
	mu      sync.RWMutex
	holders map[reflect.Type]any
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{holders: map[reflect.Type]any{}}
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry, creating it on first call.
//
// Prefer passing an explicit *Registry; Default is for composition roots that
// have nowhere better to keep one.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Of returns the holder for T in r, creating it on first use.
//
// Every call with the same T on the same registry returns the same holder.
func Of[T any](r *Registry) *Holder[T] {
	key := reflect.TypeOf((*T)(nil)).Elem()

	r.mu.RLock()
	raw, ok := r.holders[key]
	r.mu.RUnlock()
	if ok {
		return raw.(*Holder[T])
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if raw, ok := r.holders[key]; ok {
		return raw.(*Holder[T])
	}
	if r.holders == nil {
		r.holders = map[reflect.Type]any{}
	}
	h := New[T]()
	r.holders[key] = h
	return h
}

// typeName qualifies named types with their full import path, so two
// packages both called "branch" never share a name. Unnamed types
// ([]int, map[string]T, ...) fall back to reflect's spelling.
func typeName(t reflect.Type) string {
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// Types returns the sorted, import-path-qualified names of every type that
// has a holder, e.g. "github.com/acme/app/branch.Branch".
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.holders))
	for t := range r.holders {
		out = append(out, typeName(t))
	}
	sort.Strings(out)
	return out
}

// Resolve looks up an initialized instance by its qualified type name (as
// reported by Types) and defensively converts panics into errors.
//
// ok is false if no holder exists for the name or it is still uninitialized.
func (r *Registry) Resolve(name string) (val any, ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			val = nil
			ok = false
			err = fmt.Errorf("%w: %v", ErrRegistryPanic, rec)
		}
	}()

	r.mu.RLock()
	defer r.mu.RUnlock()

	for t, raw := range r.holders {
		if typeName(t) != name {
			continue
		}
		v, ok := raw.(instanceLoader).loadAny()
		return v, ok, nil
	}
	return nil, false, nil
}
