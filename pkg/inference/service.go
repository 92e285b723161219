package inference

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RunanywhereAI/sdks-sub010/pkg/logging"
	"github.com/RunanywhereAI/sdks-sub010/pkg/models"
	"github.com/RunanywhereAI/sdks-sub010/pkg/runanywhereerrors"
)

// EventKind identifies a lifecycle event the Service emits.
type EventKind string

const (
	EventModelLoading EventKind = "model-loading"
	EventModelLoaded  EventKind = "model-loaded"
	EventModelUnloaded EventKind = "model-unloaded"
	EventGenerationStarted EventKind = "generation-started"
	EventGenerationFinished EventKind = "generation-finished"
	EventGenerationFailed EventKind = "generation-failed"
)

// Event is a single lifecycle notification. Sink is the external
// collaborator named in spec §5 (out of scope to implement fully here);
// this Event is what a concrete EventSink receives.
type Event struct {
	Kind      EventKind
	ModelID   string
	Framework models.FrameworkTag
	Err       error
	At        time.Time
}

// EventSink receives Service lifecycle events. telemetry.OTelSink
// (pkg/telemetry) is one implementation; NewService discards events when
// given a nil sink, and tests commonly substitute a recording fake.
type EventSink interface {
	Emit(Event)
}

type noopSink struct{}

func (noopSink) Emit(Event) {}

// Statistics are the cumulative counters the Service tracks across its
// lifetime (SPEC_FULL §10 supplemented feature): total tokens generated,
// the number of generation calls (successful or not), and the number of
// those calls that failed. Memory usage is not tracked.
type Statistics struct {
	TokensGenerated    int64
	Generations        int64
	GenerationFailures int64
}

// Service is the single-active-model inference orchestrator (C7, spec
// §4.7): it owns at most one loaded Adapter at a time, routing Load through
// the model registry (which must report the model installed) and the
// backend registry, and serializing
// Generate/StreamGenerate/Unload against whichever adapter is currently
// loaded.
type Service struct {
	modelRegistry   *models.Registry
	backendRegistry *Registry
	sink            EventSink
	log             logging.Logger

	mu      sync.Mutex
	adapter Adapter
	loaded  models.Descriptor

	tokensGenerated    int64
	generations        int64
	generationFailures int64
}

// NewService constructs a Service over the given model and backend
// registries. A nil sink discards events; a nil logger discards logs.
func NewService(modelRegistry *models.Registry, backendRegistry *Registry, sink EventSink, log logging.Logger) *Service {
	if sink == nil {
		sink = noopSink{}
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Service{
		modelRegistry:   modelRegistry,
		backendRegistry: backendRegistry,
		sink:            sink,
		log:             logging.WithComponent(log, "inference.service"),
	}
}

// Load resolves modelID through the model registry, selects a backend per
// the registry's selection policy (an explicit pin beats the descriptor's
// own preference), and loads it. If a different model is already loaded it
// is unloaded first (best-effort; Unload errors are logged, not
// propagated, spec §4.7).
func (s *Service) Load(ctx context.Context, modelID string, pinned models.FrameworkTag) error {
	descriptor, err := s.modelRegistry.Get(modelID)
	if err != nil {
		return err
	}
	if !descriptor.IsInstalled() {
		return runanywhereerrors.New(runanywhereerrors.KindModelNotFound, "model is registered but not installed")
	}

	framework, err := s.backendRegistry.Select(descriptor, pinned)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.adapter != nil {
		if s.loaded.ID == descriptor.ID && s.adapter.Framework() == framework {
			return nil
		}
		s.unloadLocked(ctx)
	}

	adapter, err := s.backendRegistry.New(framework)
	if err != nil {
		return err
	}
	if err := adapter.Validate(descriptor); err != nil {
		return err
	}

	s.emit(Event{Kind: EventModelLoading, ModelID: descriptor.ID, Framework: framework, At: eventTime()})
	if err := adapter.Load(ctx, descriptor); err != nil {
		s.emit(Event{Kind: EventGenerationFailed, ModelID: descriptor.ID, Framework: framework, Err: err, At: eventTime()})
		return err
	}

	s.adapter = adapter
	s.loaded = descriptor
	s.emit(Event{Kind: EventModelLoaded, ModelID: descriptor.ID, Framework: framework, At: eventTime()})
	return nil
}

// Unload releases the currently loaded adapter, if any. It never returns
// an error to the caller (spec §4.7: unload is best-effort); failures are
// logged.
func (s *Service) Unload(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unloadLocked(ctx)
}

func (s *Service) unloadLocked(ctx context.Context) {
	if s.adapter == nil {
		return
	}
	if err := s.adapter.Unload(ctx); err != nil {
		s.log.WithField("model_id", s.loaded.ID).WithError(err).Warn("adapter unload reported an error; proceeding anyway")
	}
	s.emit(Event{Kind: EventModelUnloaded, ModelID: s.loaded.ID, Framework: s.adapter.Framework(), At: eventTime()})
	s.adapter = nil
	s.loaded = models.Descriptor{}
}

// Generate runs a single completion against the currently loaded model.
func (s *Service) Generate(ctx context.Context, prompt string, opts GenerationOptions) (GenerationResult, error) {
	adapter, framework, modelID, err := s.currentAdapter()
	if err != nil {
		return GenerationResult{}, err
	}

	s.emit(Event{Kind: EventGenerationStarted, ModelID: modelID, Framework: framework, At: eventTime()})
	result, err := adapter.Generate(ctx, prompt, opts)
	s.recordOutcome(modelID, framework, result, err)
	return result, err
}

// StreamGenerate runs a streamed completion against the currently loaded
// model, forwarding each token to onToken as it arrives.
func (s *Service) StreamGenerate(ctx context.Context, prompt string, opts GenerationOptions, onToken func(Token)) (GenerationResult, error) {
	adapter, framework, modelID, err := s.currentAdapter()
	if err != nil {
		return GenerationResult{}, err
	}

	s.emit(Event{Kind: EventGenerationStarted, ModelID: modelID, Framework: framework, At: eventTime()})
	result, err := adapter.StreamGenerate(ctx, prompt, opts, onToken)
	s.recordOutcome(modelID, framework, result, err)
	return result, err
}

func (s *Service) recordOutcome(modelID string, framework models.FrameworkTag, result GenerationResult, err error) {
	atomic.AddInt64(&s.tokensGenerated, int64(result.TokenCount))
	atomic.AddInt64(&s.generations, 1)
	if err != nil {
		atomic.AddInt64(&s.generationFailures, 1)
		s.emit(Event{Kind: EventGenerationFailed, ModelID: modelID, Framework: framework, Err: err, At: eventTime()})
		return
	}
	s.emit(Event{Kind: EventGenerationFinished, ModelID: modelID, Framework: framework, At: eventTime()})
}

func (s *Service) currentAdapter() (Adapter, models.FrameworkTag, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.adapter == nil {
		return nil, "", "", runanywhereerrors.New(runanywhereerrors.KindNotInitialized, "no model is currently loaded")
	}
	return s.adapter, s.adapter.Framework(), s.loaded.ID, nil
}

// Statistics returns a snapshot of the cumulative counters.
func (s *Service) Statistics() Statistics {
	return Statistics{
		TokensGenerated:    atomic.LoadInt64(&s.tokensGenerated),
		Generations:        atomic.LoadInt64(&s.generations),
		GenerationFailures: atomic.LoadInt64(&s.generationFailures),
	}
}

// LoadedModel returns the currently loaded descriptor and whether one is
// loaded at all.
func (s *Service) LoadedModel() (models.Descriptor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded, s.adapter != nil
}

func (s *Service) emit(e Event) {
	s.sink.Emit(e)
}

// eventTime is a package variable instead of a direct time.Now() call so
// tests can substitute a deterministic clock.
var eventTime = time.Now
