package backends

import (
	"context"

	"github.com/RunanywhereAI/sdks-sub010/pkg/inference"
	"github.com/RunanywhereAI/sdks-sub010/pkg/models"
)

// SystemTTS is the adapter for the operating system's built-in
// text-to-speech voice (AVSpeechSynthesizer on Apple platforms,
// TextToSpeech on Android). Like FoundationModels, it has no artifact to
// validate.
type SystemTTS struct {
	base
	sampler inference.DeterministicSampler
}

func NewSystemTTS() inference.Adapter {
	return &SystemTTS{base: newBase(models.FrameworkSystemTTS), sampler: inference.NewDeterministicSampler()}
}

func (a *SystemTTS) Validate(descriptor models.Descriptor) error {
	return nil
}

// PreferredAudioFormat reports the 22.05 kHz mono PCM this adapter emits.
func (a *SystemTTS) PreferredAudioFormat() inference.AudioFormat {
	return inference.AudioFormat{SampleRateHz: 22050, Channels: 1, BitDepth: 16}
}

func (a *SystemTTS) Generate(ctx context.Context, prompt string, opts inference.GenerationOptions) (inference.GenerationResult, error) {
	return a.generate(ctx, a.sampler, prompt, opts, nil)
}

func (a *SystemTTS) StreamGenerate(ctx context.Context, prompt string, opts inference.GenerationOptions, onToken func(inference.Token)) (inference.GenerationResult, error) {
	return a.generate(ctx, a.sampler, prompt, opts, onToken)
}
