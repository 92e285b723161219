package inference

import (
	"hash/fnv"
	"strings"
)

// DeterministicSampler is shared by the stub/simulated adapters under
// backends/: none of them link a real model runtime, so each "generates"
// text by deterministically deriving tokens from the prompt and options.
// This resolves SPEC_FULL's Open Question (a) — what a backend should do
// when it cannot honor true sampling — by making temperature 0 always
// reproduce the same output for the same prompt, and any non-zero
// temperature vary only with an explicit Seed, never with wall-clock time
// or goroutine scheduling (see DESIGN.md).
type DeterministicSampler struct {
	vocabulary []string
}

// NewDeterministicSampler constructs a sampler over the package's default
// fixed vocabulary.
func NewDeterministicSampler() DeterministicSampler {
	return DeterministicSampler{vocabulary: defaultVocabulary}
}

// defaultVocabulary is a small fixed word list the sampler draws from; it
// exists purely to produce plausible-looking, reproducible output text.
var defaultVocabulary = strings.Fields(
	"the a model runs locally and returns a short deterministic response " +
		"based on the prompt provided which helps tests stay stable across runs")

// Tokens returns maxTokens generated words for prompt under opts. At
// Temperature == 0 the result depends only on prompt and maxTokens. At
// Temperature > 0 the result additionally depends on opts.Seed, but never
// on anything outside the function's inputs.
func (s DeterministicSampler) Tokens(prompt string, opts GenerationOptions) []string {
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 32
	}

	seed := promptSeed(prompt)
	if opts.Temperature > 0 {
		seed ^= uint64(opts.Seed)
	}

	out := make([]string, 0, maxTokens)
	state := seed
	for i := 0; i < maxTokens; i++ {
		state = splitmix64(state)
		idx := int(state % uint64(len(s.vocabulary)))
		out = append(out, s.vocabulary[idx])
	}
	return out
}

func promptSeed(prompt string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(prompt))
	return h.Sum64()
}

// splitmix64 is a standard, allocation-free integer mixer used to derive a
// reproducible sequence from a seed without pulling in math/rand (whose
// default source is not guaranteed stable across Go versions for a fixed
// seed).
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func joinTokens(tokens []string) string {
	return strings.Join(tokens, " ")
}
