package models

import (
	"errors"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/RunanywhereAI/sdks-sub010/pkg/logging"
)

// Registry is the in-memory, concurrency-safe store of Model Descriptors
// (C2, spec §4.2). Register establishes a happens-before edge with every
// subsequent Get/List call that observes the registered id: callers that
// coordinate registration and lookup through the Registry's own mutex need
// no additional synchronization.
type Registry struct {
	mu   sync.RWMutex
	byID map[string]Descriptor
	log  logging.Logger
}

// NewRegistry constructs an empty registry. A nil logger is replaced with a
// discard logger so callers never need a nil check.
func NewRegistry(log logging.Logger) *Registry {
	if log == nil {
		log = logging.Discard()
	}
	return &Registry{
		byID: make(map[string]Descriptor),
		log:  logging.WithComponent(log, "models.registry"),
	}
}

// Register adds a new descriptor. It fails with ErrAlreadyRegistered if the
// id is already present; callers that intend to overwrite should call
// Update instead (spec §4.2: registration never silently clobbers).
func (r *Registry) Register(d Descriptor) error {
	if err := d.Validate(statPathExists); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[d.ID]; exists {
		return ErrAlreadyRegistered
	}
	d.UpdatedAt = timeNow()
	r.byID[d.ID] = d
	r.log.WithField("id", d.ID).Debug("registered model descriptor")
	return nil
}

// Update replaces an existing descriptor in place. Returns ErrNotFound if
// the id isn't registered.
func (r *Registry) Update(d Descriptor) error {
	if err := d.Validate(statPathExists); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[d.ID]; !exists {
		return ErrNotFound
	}
	d.UpdatedAt = timeNow()
	r.byID[d.ID] = d
	r.log.WithField("id", d.ID).Debug("updated model descriptor")
	return nil
}

// Unregister removes a descriptor. Returns ErrNotFound if absent.
func (r *Registry) Unregister(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	r.log.WithField("id", id).Debug("unregistered model descriptor")
	return nil
}

// Get returns a copy of the descriptor registered under id.
func (r *Registry) Get(id string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, exists := r.byID[id]
	if !exists {
		return Descriptor{}, ErrNotFound
	}
	return d, nil
}

// List returns a snapshot of every registered descriptor. The returned
// slice is safe for the caller to mutate; it shares no backing state with
// the registry.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.byID))
	for _, d := range r.byID {
		out = append(out, d)
	}
	return out
}

// Filter returns every registered descriptor matching criteria (spec
// §4.2's AND-combined filter semantics, implemented in criteria.go).
func (r *Registry) Filter(c Criteria) []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0)
	for _, d := range r.byID {
		if c.Matches(d) {
			out = append(out, d)
		}
	}
	return out
}

func statPathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// timeNow is a package variable instead of a direct time.Now() call so
// tests can pin UpdatedAt deterministically without adding a clock
// parameter to every exported method.
var timeNow = time.Now
