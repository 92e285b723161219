package backends

import (
	"context"

	"github.com/RunanywhereAI/sdks-sub010/pkg/inference"
	"github.com/RunanywhereAI/sdks-sub010/pkg/models"
)

// LlamaCpp is the adapter for GGUF models run through a llama.cpp-style
// runtime. Grounded on the teacher's llamacpp BackendConfiguration
// (context size, GPU layers, batch size survive into Descriptor.Metadata
// rather than a backend-specific config struct, since this library has one
// generic Adapter contract instead of per-backend config types).
type LlamaCpp struct {
	base
	sampler inference.DeterministicSampler
}

// NewLlamaCpp constructs an unloaded llama.cpp adapter.
func NewLlamaCpp() inference.Adapter {
	return &LlamaCpp{base: newBase(models.FrameworkLlamaCpp), sampler: inference.NewDeterministicSampler()}
}

func (a *LlamaCpp) Validate(descriptor models.Descriptor) error {
	if descriptor.Format != models.FormatGGUF && descriptor.Format != models.FormatGGML {
		return errUnsupportedModel(a.framework, descriptor.Format)
	}
	return nil
}

func (a *LlamaCpp) PreferredAudioFormat() inference.AudioFormat { return inference.AudioFormat{} }

func (a *LlamaCpp) Generate(ctx context.Context, prompt string, opts inference.GenerationOptions) (inference.GenerationResult, error) {
	return a.generate(ctx, a.sampler, prompt, opts, nil)
}

func (a *LlamaCpp) StreamGenerate(ctx context.Context, prompt string, opts inference.GenerationOptions, onToken func(inference.Token)) (inference.GenerationResult, error) {
	return a.generate(ctx, a.sampler, prompt, opts, onToken)
}
