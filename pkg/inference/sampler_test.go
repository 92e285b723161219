package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicSampler_ZeroTemperatureIsStable(t *testing.T) {
	s := NewDeterministicSampler()
	opts := GenerationOptions{MaxTokens: 8, Temperature: 0}

	first := s.Tokens("hello world", opts)
	second := s.Tokens("hello world", opts)

	assert.Equal(t, first, second)
}

func TestDeterministicSampler_ZeroTemperatureIgnoresSeed(t *testing.T) {
	s := NewDeterministicSampler()
	a := s.Tokens("hello world", GenerationOptions{MaxTokens: 8, Temperature: 0, Seed: 1})
	b := s.Tokens("hello world", GenerationOptions{MaxTokens: 8, Temperature: 0, Seed: 2})

	assert.Equal(t, a, b)
}

func TestDeterministicSampler_DifferentPromptsDiffer(t *testing.T) {
	s := NewDeterministicSampler()
	opts := GenerationOptions{MaxTokens: 8}

	a := s.Tokens("hello world", opts)
	b := s.Tokens("goodbye world", opts)

	assert.NotEqual(t, a, b)
}

func TestDeterministicSampler_NonZeroTemperatureDependsOnSeed(t *testing.T) {
	s := NewDeterministicSampler()
	a := s.Tokens("hello", GenerationOptions{MaxTokens: 8, Temperature: 0.7, Seed: 1})
	b := s.Tokens("hello", GenerationOptions{MaxTokens: 8, Temperature: 0.7, Seed: 2})

	assert.NotEqual(t, a, b)
}

func TestDeterministicSampler_RespectsMaxTokens(t *testing.T) {
	s := NewDeterministicSampler()
	tokens := s.Tokens("hello", GenerationOptions{MaxTokens: 5})
	assert.Len(t, tokens, 5)
}

func TestDeterministicSampler_DefaultsMaxTokens(t *testing.T) {
	s := NewDeterministicSampler()
	tokens := s.Tokens("hello", GenerationOptions{})
	assert.Len(t, tokens, 32)
}
