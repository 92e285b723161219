package backends

import (
	"context"

	"github.com/RunanywhereAI/sdks-sub010/pkg/inference"
	"github.com/RunanywhereAI/sdks-sub010/pkg/models"
)

// ExecuTorch is the adapter for PyTorch's on-device runtime, consuming
// .pte program files.
type ExecuTorch struct {
	base
	sampler inference.DeterministicSampler
}

func NewExecuTorch() inference.Adapter {
	return &ExecuTorch{base: newBase(models.FrameworkExecuTorch), sampler: inference.NewDeterministicSampler()}
}

func (a *ExecuTorch) Validate(descriptor models.Descriptor) error {
	if descriptor.Format != models.FormatPTE {
		return errUnsupportedModel(a.framework, descriptor.Format)
	}
	return nil
}

func (a *ExecuTorch) PreferredAudioFormat() inference.AudioFormat { return inference.AudioFormat{} }

func (a *ExecuTorch) Generate(ctx context.Context, prompt string, opts inference.GenerationOptions) (inference.GenerationResult, error) {
	return a.generate(ctx, a.sampler, prompt, opts, nil)
}

func (a *ExecuTorch) StreamGenerate(ctx context.Context, prompt string, opts inference.GenerationOptions, onToken func(inference.Token)) (inference.GenerationResult, error) {
	return a.generate(ctx, a.sampler, prompt, opts, onToken)
}
