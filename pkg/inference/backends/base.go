// Package backends provides one Adapter implementation per FrameworkTag.
// None of them links a real native inference runtime (llama.cpp, Core ML,
// ONNX Runtime, ...): every platform-specific runtime the spec names is a
// cgo/ObjC/JNI boundary that does not exist in this retrieval pack, so each
// adapter here is a simulated backend that honors the Adapter contract's
// observable behavior (load/unload lifecycle, deterministic generation at
// temperature 0, token-by-token streaming where each Token carries one word
// rather than the running text) using the shared sampler in
// ../sampler.go. A real product would replace base.generate's body with a
// call into the corresponding native library while keeping everything
// else — state machine, validation, error taxonomy — unchanged.
package backends

import (
	"context"
	"fmt"
	"sync"

	"github.com/RunanywhereAI/sdks-sub010/pkg/inference"
	"github.com/RunanywhereAI/sdks-sub010/pkg/models"
	"github.com/RunanywhereAI/sdks-sub010/pkg/runanywhereerrors"
)

// base implements the lifecycle and generation plumbing shared by every
// simulated adapter, including Framework(); each framework file embeds it
// and supplies Validate(), PreferredAudioFormat(), and thin Generate/
// StreamGenerate wrappers around generate.
type base struct {
	framework models.FrameworkTag

	mu         sync.Mutex
	state      inference.LoadState
	descriptor models.Descriptor
}

func newBase(fw models.FrameworkTag) base {
	return base{framework: fw, state: inference.StateUnloaded}
}

func (b *base) Framework() models.FrameworkTag { return b.framework }

func (b *base) State() inference.LoadState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *base) Load(ctx context.Context, descriptor models.Descriptor) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == inference.StateLoaded && b.descriptor.ID == descriptor.ID {
		return nil
	}
	b.state = inference.StateLoading
	select {
	case <-ctx.Done():
		b.state = inference.StateUnloaded
		return ctx.Err()
	default:
	}
	b.descriptor = descriptor
	b.state = inference.StateLoaded
	return nil
}

func (b *base) Unload(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = inference.StateUnloaded
	b.descriptor = models.Descriptor{}
	return nil
}

func (b *base) requireLoaded() error {
	if b.State() != inference.StateLoaded {
		return runanywhereerrors.New(runanywhereerrors.KindNotInitialized, "adapter is not loaded")
	}
	return nil
}

// generate is the shared simulated-generation path used by both Generate
// and StreamGenerate.
func (b *base) generate(ctx context.Context, sampler inference.DeterministicSampler, prompt string, opts inference.GenerationOptions, onToken func(inference.Token)) (inference.GenerationResult, error) {
	if err := b.requireLoaded(); err != nil {
		return inference.GenerationResult{}, err
	}

	tokens := sampler.Tokens(prompt, opts)
	var text string
	for i, tok := range tokens {
		select {
		case <-ctx.Done():
			result := inference.GenerationResult{Text: text, TokenCount: i, FinishReason: inference.FinishCancelled}
			if onToken != nil {
				onToken(inference.Token{Text: "", Index: i, FinishReason: inference.FinishCancelled})
			}
			return result, ctx.Err()
		default:
		}
		if i > 0 {
			text += " "
		}
		text += tok
		if onToken != nil {
			onToken(inference.Token{Text: tok, Index: i, FinishReason: ""})
		}
	}

	finish := inference.FinishLength
	if len(tokens) < opts.MaxTokens || opts.MaxTokens == 0 {
		finish = inference.FinishStop
	}
	if onToken != nil {
		onToken(inference.Token{Text: "", Index: len(tokens), FinishReason: finish})
	}
	return inference.GenerationResult{Text: text, TokenCount: len(tokens), FinishReason: finish}, nil
}

func errUnsupportedModel(fw models.FrameworkTag, format models.Format) error {
	return runanywhereerrors.New(runanywhereerrors.KindUnsupportedFormat,
		fmt.Sprintf("%s adapter does not support format %q", fw, format))
}
