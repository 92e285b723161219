package backends

import (
	"context"

	"github.com/RunanywhereAI/sdks-sub010/pkg/inference"
	"github.com/RunanywhereAI/sdks-sub010/pkg/models"
)

// CoreML is the adapter for Apple's Core ML runtime, consuming .mlmodel
// and .mlpackage artifacts (spec §4.1's directory-shape detection case).
type CoreML struct {
	base
	sampler inference.DeterministicSampler
}

func NewCoreML() inference.Adapter {
	return &CoreML{base: newBase(models.FrameworkCoreML), sampler: inference.NewDeterministicSampler()}
}

func (a *CoreML) Validate(descriptor models.Descriptor) error {
	if descriptor.Format != models.FormatMLModel && descriptor.Format != models.FormatMLPackage {
		return errUnsupportedModel(a.framework, descriptor.Format)
	}
	return nil
}

func (a *CoreML) PreferredAudioFormat() inference.AudioFormat { return inference.AudioFormat{} }

func (a *CoreML) Generate(ctx context.Context, prompt string, opts inference.GenerationOptions) (inference.GenerationResult, error) {
	return a.generate(ctx, a.sampler, prompt, opts, nil)
}

func (a *CoreML) StreamGenerate(ctx context.Context, prompt string, opts inference.GenerationOptions, onToken func(inference.Token)) (inference.GenerationResult, error) {
	return a.generate(ctx, a.sampler, prompt, opts, onToken)
}
