package backends

import (
	"context"

	"github.com/RunanywhereAI/sdks-sub010/pkg/inference"
	"github.com/RunanywhereAI/sdks-sub010/pkg/models"
)

// PicoLLM is the adapter for Picovoice's picoLLM runtime, which consumes a
// proprietary .bin weight file.
type PicoLLM struct {
	base
	sampler inference.DeterministicSampler
}

func NewPicoLLM() inference.Adapter {
	return &PicoLLM{base: newBase(models.FrameworkPicoLLM), sampler: inference.NewDeterministicSampler()}
}

func (a *PicoLLM) Validate(descriptor models.Descriptor) error {
	if descriptor.Format != models.FormatBin {
		return errUnsupportedModel(a.framework, descriptor.Format)
	}
	return nil
}

func (a *PicoLLM) PreferredAudioFormat() inference.AudioFormat { return inference.AudioFormat{} }

func (a *PicoLLM) Generate(ctx context.Context, prompt string, opts inference.GenerationOptions) (inference.GenerationResult, error) {
	return a.generate(ctx, a.sampler, prompt, opts, nil)
}

func (a *PicoLLM) StreamGenerate(ctx context.Context, prompt string, opts inference.GenerationOptions, onToken func(inference.Token)) (inference.GenerationResult, error) {
	return a.generate(ctx, a.sampler, prompt, opts, onToken)
}
