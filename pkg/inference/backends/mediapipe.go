package backends

import (
	"context"

	"github.com/RunanywhereAI/sdks-sub010/pkg/inference"
	"github.com/RunanywhereAI/sdks-sub010/pkg/models"
)

// MediaPipe is the adapter for Google's MediaPipe LLM Inference task
// bundles, which are packaged as .tflite or .bin depending on tool
// version.
type MediaPipe struct {
	base
	sampler inference.DeterministicSampler
}

func NewMediaPipe() inference.Adapter {
	return &MediaPipe{base: newBase(models.FrameworkMediaPipe), sampler: inference.NewDeterministicSampler()}
}

func (a *MediaPipe) Validate(descriptor models.Descriptor) error {
	if descriptor.Format != models.FormatTFLite && descriptor.Format != models.FormatBin {
		return errUnsupportedModel(a.framework, descriptor.Format)
	}
	return nil
}

func (a *MediaPipe) PreferredAudioFormat() inference.AudioFormat { return inference.AudioFormat{} }

func (a *MediaPipe) Generate(ctx context.Context, prompt string, opts inference.GenerationOptions) (inference.GenerationResult, error) {
	return a.generate(ctx, a.sampler, prompt, opts, nil)
}

func (a *MediaPipe) StreamGenerate(ctx context.Context, prompt string, opts inference.GenerationOptions, onToken func(inference.Token)) (inference.GenerationResult, error) {
	return a.generate(ctx, a.sampler, prompt, opts, onToken)
}
