package inference

import (
	"fmt"
	"sync"

	"github.com/RunanywhereAI/sdks-sub010/pkg/models"
	"github.com/RunanywhereAI/sdks-sub010/pkg/runanywhereerrors"
)

// Factory constructs a fresh Adapter instance for a framework. The
// orchestrator calls this on every Load that is not a repeat of the
// currently loaded model and framework, rather than keeping every possible
// adapter warm.
type Factory func() Adapter

// Registry maps FrameworkTag to the Factory that can construct an Adapter
// for it (spec §4.5). Grounded on the teacher's scheduling.installer,
// generalized from "install a backend binary" to "construct an in-process
// adapter".
type Registry struct {
	mu        sync.RWMutex
	factories map[models.FrameworkTag]Factory
}

// NewRegistry constructs an empty backend registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[models.FrameworkTag]Factory)}
}

// Register associates a framework tag with the factory that builds its
// adapter. Re-registering a framework overwrites the previous factory.
func (r *Registry) Register(framework models.FrameworkTag, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[framework] = factory
}

// Available lists every registered framework tag.
func (r *Registry) Available() []models.FrameworkTag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.FrameworkTag, 0, len(r.factories))
	for fw := range r.factories {
		out = append(out, fw)
	}
	return out
}

// New constructs an Adapter instance for framework, or an error if no
// factory is registered.
func (r *Registry) New(framework models.FrameworkTag) (Adapter, error) {
	r.mu.RLock()
	factory, ok := r.factories[framework]
	r.mu.RUnlock()
	if !ok {
		return nil, runanywhereerrors.New(runanywhereerrors.KindNoCompatibleBackend,
			fmt.Sprintf("no adapter registered for framework %q", framework))
	}
	return factory(), nil
}

// Select applies the backend-selection policy (spec §4.5): an explicit
// pin wins outright (and it is an error if that framework isn't
// registered); otherwise the descriptor's own PreferredBackend is used if
// registered; otherwise the first of the descriptor's CompatibleBackends
// that is registered, in CompatibleBackends order; otherwise
// no-compatible-backend.
func (r *Registry) Select(descriptor models.Descriptor, pinned models.FrameworkTag) (models.FrameworkTag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if pinned != "" {
		if _, ok := r.factories[pinned]; !ok {
			return "", runanywhereerrors.New(runanywhereerrors.KindNoCompatibleBackend,
				fmt.Sprintf("pinned backend %q is not registered", pinned))
		}
		return pinned, nil
	}

	if descriptor.PreferredBackend != "" {
		if _, ok := r.factories[descriptor.PreferredBackend]; ok {
			return descriptor.PreferredBackend, nil
		}
	}

	for _, fw := range descriptor.CompatibleBackends {
		if _, ok := r.factories[fw]; ok {
			return fw, nil
		}
	}

	return "", runanywhereerrors.New(runanywhereerrors.KindNoCompatibleBackend,
		fmt.Sprintf("no registered backend compatible with model %q", descriptor.ID))
}
