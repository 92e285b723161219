package voice

import (
	"context"

	"github.com/RunanywhereAI/sdks-sub010/pkg/inference"
)

// TTS is a text-to-speech backend consumed by the Pipeline. The pipeline
// calls Synthesize once per segment, with the complete LLM response, after
// generation has finished.
type TTS interface {
	PreferredAudioFormat() inference.AudioFormat

	// Synthesize converts text into a single audio chunk. ctx cancellation
	// (barge-in) must abort synthesis promptly.
	Synthesize(ctx context.Context, text string) (AudioChunk, error)
}

// LLM is the text-generation backend consumed by the Pipeline. It is a
// narrowed view over inference.Adapter so the pipeline doesn't need to
// depend on the full adapter lifecycle (Load/Unload are the Service's
// concern, not the pipeline's).
type LLM interface {
	StreamGenerate(ctx context.Context, prompt string, opts inference.GenerationOptions, onToken func(inference.Token)) (inference.GenerationResult, error)
}
