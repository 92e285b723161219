// Package inference defines the backend-neutral inference adapter contract
// (C6, spec §4.6) and the orchestrator that loads, generates from, and
// unloads a single active model (C7, spec §4.7). Grounded on the teacher's
// pkg/inference.Backend interface, reinterpreted: docker-model-runner's
// Backend manages an external HTTP-serving subprocess reachable over a
// socket, whereas an on-device library call loads a model in-process and
// returns tokens directly, so Run/Install/Status become
// Load/Generate/StreamGenerate/Unload.
package inference

import (
	"context"

	"github.com/RunanywhereAI/sdks-sub010/pkg/models"
)

// LoadState is the lifecycle state of an Adapter instance (spec §4.6).
type LoadState string

const (
	StateUnloaded LoadState = "unloaded"
	StateLoading  LoadState = "loading"
	StateLoaded   LoadState = "loaded"
)

// FinishReason explains why generation stopped.
type FinishReason string

const (
	FinishStop          FinishReason = "stop"
	FinishLength        FinishReason = "length"
	FinishCancelled     FinishReason = "cancelled"
	FinishError         FinishReason = "error"
)

// GenerationOptions parameterizes a single Generate/StreamGenerate call.
// Temperature 0 must be deterministic for a given prompt and model (spec
// §4.6 invariant): adapters implementing sampling internally are required
// to special-case it rather than merely using a very low temperature.
type GenerationOptions struct {
	MaxTokens     int
	Temperature   float64
	TopP          float64
	TopK          int
	StopSequences []string
	Seed          int64
}

// Token is a single streamed generation unit.
type Token struct {
	Text         string
	Index        int
	FinishReason FinishReason
}

// GenerationResult is the complete output of a (possibly streamed)
// generation call. StreamGenerate does not hand out intermediate
// GenerationResult values: its onToken callback receives one Token per
// generated unit, carrying only that unit's text rather than the running
// text, and its return value equals what a non-streaming Generate call with
// identical options returns.
type GenerationResult struct {
	Text         string
	TokenCount   int
	FinishReason FinishReason
}

// AudioFormat names a PCM encoding an STT/TTS-capable adapter accepts or
// produces (spec §4.9's PreferredAudioFormat negotiation).
type AudioFormat struct {
	SampleRateHz int
	Channels     int
	BitDepth     int
}

// Adapter is the contract every inference backend implements (spec §4.6).
// Load/Unload are not required to be safe for concurrent use with
// Generate/StreamGenerate on the same instance; the orchestrator in
// service.go serializes calls against a given Adapter.
type Adapter interface {
	// Framework identifies which FrameworkTag this adapter implements.
	Framework() models.FrameworkTag

	// Load prepares the adapter to serve a specific model descriptor. It
	// is idempotent: calling Load again while already loaded with the
	// same model id is a no-op: a different model id first unloads the
	// current one.
	Load(ctx context.Context, descriptor models.Descriptor) error

	// Unload releases any resources held by the last Load call. Unload on
	// an already-unloaded adapter is a no-op and never returns an error
	// (spec §4.7: unload is best-effort).
	Unload(ctx context.Context) error

	// State reports the adapter's current lifecycle state.
	State() LoadState

	// Generate runs prompt to completion and returns the full result.
	Generate(ctx context.Context, prompt string, opts GenerationOptions) (GenerationResult, error)

	// StreamGenerate runs prompt to completion, invoking onToken for each
	// incremental unit as it becomes available, and returns the same
	// cumulative result Generate would have. Implementations must still
	// call onToken with a final FinishReason-bearing Token even when
	// cancelled via ctx, so callers always observe termination.
	StreamGenerate(ctx context.Context, prompt string, opts GenerationOptions, onToken func(Token)) (GenerationResult, error)

	// Validate reports whether descriptor is structurally loadable by this
	// adapter (extension/format/metadata checks) without actually loading
	// it — used by the registry's backend-selection policy.
	Validate(descriptor models.Descriptor) error

	// PreferredAudioFormat reports the PCM format this adapter prefers for
	// voice pipeline input/output, if it participates in the voice
	// pipeline at all. Adapters that are text-only return the zero value.
	PreferredAudioFormat() AudioFormat
}
