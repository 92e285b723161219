package backends

import (
	"context"

	"github.com/RunanywhereAI/sdks-sub010/pkg/inference"
	"github.com/RunanywhereAI/sdks-sub010/pkg/models"
)

// MLX is the adapter for Apple silicon's MLX array framework, consuming
// safetensors weight files.
type MLX struct {
	base
	sampler inference.DeterministicSampler
}

func NewMLX() inference.Adapter {
	return &MLX{base: newBase(models.FrameworkMLX), sampler: inference.NewDeterministicSampler()}
}

func (a *MLX) Validate(descriptor models.Descriptor) error {
	if descriptor.Format != models.FormatSafetensors {
		return errUnsupportedModel(a.framework, descriptor.Format)
	}
	return nil
}

func (a *MLX) PreferredAudioFormat() inference.AudioFormat { return inference.AudioFormat{} }

func (a *MLX) Generate(ctx context.Context, prompt string, opts inference.GenerationOptions) (inference.GenerationResult, error) {
	return a.generate(ctx, a.sampler, prompt, opts, nil)
}

func (a *MLX) StreamGenerate(ctx context.Context, prompt string, opts inference.GenerationOptions, onToken func(inference.Token)) (inference.GenerationResult, error) {
	return a.generate(ctx, a.sampler, prompt, opts, onToken)
}
