package backends

import (
	"context"

	"github.com/RunanywhereAI/sdks-sub010/pkg/inference"
	"github.com/RunanywhereAI/sdks-sub010/pkg/models"
)

// ONNX is the adapter for ONNX Runtime, accepting both plain .onnx graphs
// and the quantized .ort runtime format.
type ONNX struct {
	base
	sampler inference.DeterministicSampler
}

func NewONNX() inference.Adapter {
	return &ONNX{base: newBase(models.FrameworkONNX), sampler: inference.NewDeterministicSampler()}
}

func (a *ONNX) Validate(descriptor models.Descriptor) error {
	if descriptor.Format != models.FormatONNX && descriptor.Format != models.FormatORT {
		return errUnsupportedModel(a.framework, descriptor.Format)
	}
	return nil
}

func (a *ONNX) PreferredAudioFormat() inference.AudioFormat { return inference.AudioFormat{} }

func (a *ONNX) Generate(ctx context.Context, prompt string, opts inference.GenerationOptions) (inference.GenerationResult, error) {
	return a.generate(ctx, a.sampler, prompt, opts, nil)
}

func (a *ONNX) StreamGenerate(ctx context.Context, prompt string, opts inference.GenerationOptions, onToken func(inference.Token)) (inference.GenerationResult, error) {
	return a.generate(ctx, a.sampler, prompt, opts, onToken)
}
