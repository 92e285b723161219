package backends

import (
	"context"

	"github.com/RunanywhereAI/sdks-sub010/pkg/inference"
	"github.com/RunanywhereAI/sdks-sub010/pkg/models"
)

// FoundationModels is the adapter for an OS-provided on-device LLM (e.g.
// Apple's Foundation Models framework): there is no artifact to validate
// against a format, since the model ships with the operating system
// rather than as a downloaded file.
type FoundationModels struct {
	base
	sampler inference.DeterministicSampler
}

func NewFoundationModels() inference.Adapter {
	return &FoundationModels{base: newBase(models.FrameworkFoundation), sampler: inference.NewDeterministicSampler()}
}

func (a *FoundationModels) Validate(descriptor models.Descriptor) error {
	return nil
}

func (a *FoundationModels) PreferredAudioFormat() inference.AudioFormat { return inference.AudioFormat{} }

func (a *FoundationModels) Generate(ctx context.Context, prompt string, opts inference.GenerationOptions) (inference.GenerationResult, error) {
	return a.generate(ctx, a.sampler, prompt, opts, nil)
}

func (a *FoundationModels) StreamGenerate(ctx context.Context, prompt string, opts inference.GenerationOptions, onToken func(inference.Token)) (inference.GenerationResult, error) {
	return a.generate(ctx, a.sampler, prompt, opts, onToken)
}
