package backends

import (
	"context"

	"github.com/RunanywhereAI/sdks-sub010/pkg/inference"
	"github.com/RunanywhereAI/sdks-sub010/pkg/models"
)

// TFLite is the adapter for TensorFlow Lite's flatbuffer-packaged models.
type TFLite struct {
	base
	sampler inference.DeterministicSampler
}

func NewTFLite() inference.Adapter {
	return &TFLite{base: newBase(models.FrameworkTFLite), sampler: inference.NewDeterministicSampler()}
}

func (a *TFLite) Validate(descriptor models.Descriptor) error {
	if descriptor.Format != models.FormatTFLite {
		return errUnsupportedModel(a.framework, descriptor.Format)
	}
	return nil
}

func (a *TFLite) PreferredAudioFormat() inference.AudioFormat { return inference.AudioFormat{} }

func (a *TFLite) Generate(ctx context.Context, prompt string, opts inference.GenerationOptions) (inference.GenerationResult, error) {
	return a.generate(ctx, a.sampler, prompt, opts, nil)
}

func (a *TFLite) StreamGenerate(ctx context.Context, prompt string, opts inference.GenerationOptions, onToken func(inference.Token)) (inference.GenerationResult, error) {
	return a.generate(ctx, a.sampler, prompt, opts, onToken)
}
