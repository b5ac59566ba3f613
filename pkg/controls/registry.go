package controls

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-paramform/pkg/param"
)

// ErrNoFactory is returned when no factory is registered for a field kind or
// any of its ancestors.
var ErrNoFactory = errors.New("controls: no factory registered")

// Registry maps field kinds to control factories. The latest registration
// for a kind wins. An empty registry never resolves a factory.
type Registry struct {
	mu        sync.RWMutex
	factories map[param.Kind]Factory
}

// NewRegistry constructs a registry with the built-in factories registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register binds factory to kind, replacing any previous binding.
func (r *Registry) Register(kind param.Kind, factory Factory) {
	if r == nil || factory == nil || kind == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.factories == nil {
		r.factories = make(map[param.Kind]Factory)
	}
	r.factories[kind] = factory
}

// Lookup returns the factory registered for exactly kind.
func (r *Registry) Lookup(kind param.Kind) (Factory, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[kind]
	return factory, ok
}

// Kinds lists the registered kinds in sorted order.
func (r *Registry) Kinds() []param.Kind {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	kinds := make([]param.Kind, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	r.mu.RUnlock()
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func (r *Registry) registerBuiltins() {
	r.Register(param.KindParameter, TextWidget)
	r.Register(param.KindSelector, DropdownWidget)
	r.Register(param.KindBoolean, CheckboxWidget)
	r.Register(param.KindNumber, FloatWidget)
	r.Register(param.KindInteger, IntegerWidget)
	r.Register(param.KindListSelector, ListSelectorWidget(DefaultItemLimit))
	r.Register(param.KindAction, ActionButton)
	r.Register(param.KindOutput, ActiveHTMLWidget)
}

// Resolver picks the factory for a descriptor.
type Resolver struct {
	registry *Registry
}

// NewResolver resolves against registry, or a fresh built-in registry when
// registry is nil.
func NewResolver(registry *Registry) *Resolver {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Resolver{registry: registry}
}

// Registry exposes the registry the resolver reads from.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Resolve returns HTMLWidget for constant fields, otherwise the factory of
// the most specific registered ancestor of the descriptor's kind.
func (r *Resolver) Resolve(d param.Descriptor) (Factory, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil descriptor", ErrNoFactory)
	}
	if d.Constant() {
		return HTMLWidget, nil
	}
	for _, kind := range param.Ancestors(d.Kind()) {
		if factory, ok := r.registry.Lookup(kind); ok {
			return factory, nil
		}
	}
	return nil, fmt.Errorf("%w for field %q of kind %s", ErrNoFactory, d.Name(), d.Kind())
}
