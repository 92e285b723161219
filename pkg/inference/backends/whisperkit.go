package backends

import (
	"context"

	"github.com/RunanywhereAI/sdks-sub010/pkg/inference"
	"github.com/RunanywhereAI/sdks-sub010/pkg/models"
)

// WhisperKit is the adapter for Argmax's WhisperKit speech-to-text
// runtime, packaged as a Core ML .mlpackage. Its Generate/StreamGenerate
// methods exist to satisfy the common Adapter contract (voice pipeline
// orchestration is framework-neutral, spec §4.9); in practice the voice
// pipeline calls it only through the STT-specific path in pkg/voice.
type WhisperKit struct {
	base
	sampler inference.DeterministicSampler
}

func NewWhisperKit() inference.Adapter {
	return &WhisperKit{base: newBase(models.FrameworkWhisperKit), sampler: inference.NewDeterministicSampler()}
}

func (a *WhisperKit) Validate(descriptor models.Descriptor) error {
	if descriptor.Format != models.FormatMLPackage {
		return errUnsupportedModel(a.framework, descriptor.Format)
	}
	return nil
}

// PreferredAudioFormat reports the 16 kHz mono PCM WhisperKit's encoder
// expects.
func (a *WhisperKit) PreferredAudioFormat() inference.AudioFormat {
	return inference.AudioFormat{SampleRateHz: 16000, Channels: 1, BitDepth: 16}
}

func (a *WhisperKit) Generate(ctx context.Context, prompt string, opts inference.GenerationOptions) (inference.GenerationResult, error) {
	return a.generate(ctx, a.sampler, prompt, opts, nil)
}

func (a *WhisperKit) StreamGenerate(ctx context.Context, prompt string, opts inference.GenerationOptions, onToken func(inference.Token)) (inference.GenerationResult, error) {
	return a.generate(ctx, a.sampler, prompt, opts, onToken)
}
