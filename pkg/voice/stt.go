package voice

import (
	"context"

	"github.com/RunanywhereAI/sdks-sub010/pkg/inference"
)

// STT is a speech-to-text backend consumed by the Pipeline: a narrower,
// audio-specific surface than the full text-generation Adapter contract.
// The inference backends (including backends.WhisperKit) do not implement
// it, and this module ships no wrapper that adapts one to it.
type STT interface {
	// PreferredAudioFormat reports the PCM format this implementation
	// expects (spec §4.9's negotiation step).
	PreferredAudioFormat() inference.AudioFormat

	// Transcribe converts a complete speech segment into text. It is
	// called from a detached goroutine by the pipeline (spec §4.9: STT
	// must never block audio ingestion), so implementations are free to
	// take as long as they need; ctx cancellation must be honored.
	Transcribe(ctx context.Context, segment AudioChunk) (string, error)

	// Warm prepares the backend (e.g. loading weights) ahead of the first
	// Transcribe call. The pipeline treats a not-yet-warm STT as
	// "not-ready" and drops speech segments rather than queuing them
	// (spec §4.9 edge case).
	Warm(ctx context.Context) error

	// Ready reports whether Warm has completed successfully.
	Ready() bool
}
