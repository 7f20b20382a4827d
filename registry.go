package carlgo

import (
	"sync"

	"go.uber.org/zap"
)

// TypeRegistry is the process-wide catalog of known TypeDescriptors,
// keyed by the name each was registered under. It is safe for
// concurrent lookups; registration is expected to happen during
// program startup (init-time leaf registration, reflectbuild.Build
// calls) before any graph is serialized, per the single-writer
// discipline spec.md §5 describes for the rest of the library.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]*TypeDescriptor
	order []string
	log   *zap.Logger
}

// NewTypeRegistry returns an empty, independent registry. Tests use
// this instead of the shared Registry() singleton so descriptor
// registration in one test cannot leak into another.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		types: make(map[string]*TypeDescriptor),
		log:   zap.NewNop(),
	}
}

// SetLogger attaches a logger used for Debug-level registration
// diagnostics. A nil logger is treated as zap.NewNop().
func (r *TypeRegistry) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	r.mu.Lock()
	r.log = log
	r.mu.Unlock()
}

var (
	globalRegistry     *TypeRegistry
	globalRegistryOnce sync.Once
)

// Registry returns the process-wide TypeRegistry, lazily constructing
// it on first use. Leaf primitive types self-register into it from
// init() in leaf.go.
func Registry() *TypeRegistry {
	globalRegistryOnce.Do(func() {
		globalRegistry = NewTypeRegistry()
	})
	return globalRegistry
}

// Register adds a descriptor to the registry under its own Name. It
// fails with ErrDuplicateType if that name is already taken.
func (r *TypeRegistry) Register(d *TypeDescriptor) error {
	if d == nil || d.Name == "" {
		return invalidMemberLayoutErr("<nil>", "", "descriptor has no name")
	}
	if err := d.validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[d.Name]; exists {
		return duplicateTypeErr(d.Name)
	}
	r.types[d.Name] = d
	r.order = append(r.order, d.Name)
	r.log.Debug("type registered", zap.String("type", d.Name), zap.Int("size", d.Size))
	return nil
}

// Lookup returns the descriptor registered under name, if any.
func (r *TypeRegistry) Lookup(name string) (*TypeDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.types[name]
	return d, ok
}

// Names returns every registered type name in registration order
// (matching the original ReflectionDataManager's append-only
// enumeration, not alphabetical order).
func (r *TypeRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
