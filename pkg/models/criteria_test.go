package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseDescriptor() Descriptor {
	return Descriptor{
		ID:                   "tinyllama-q4",
		DisplayName:          "TinyLlama Q4",
		Format:               FormatGGUF,
		EstimatedMemoryBytes: 600 << 20,
		ContextLength:        2048,
		CompatibleBackends:   []FrameworkTag{FrameworkLlamaCpp},
		Metadata:             Metadata{Quantization: "Q4_K_M"},
	}
}

func TestCriteria_EmptyMatchesEverything(t *testing.T) {
	assert.True(t, Criteria{}.Matches(baseDescriptor()))
}

func TestCriteria_Framework(t *testing.T) {
	d := baseDescriptor()
	assert.True(t, Criteria{Framework: FrameworkLlamaCpp}.Matches(d))
	assert.False(t, Criteria{Framework: FrameworkCoreML}.Matches(d))
}

func TestCriteria_Format(t *testing.T) {
	d := baseDescriptor()
	assert.True(t, Criteria{Format: FormatGGUF}.Matches(d))
	assert.False(t, Criteria{Format: FormatONNX}.Matches(d))
}

func TestCriteria_MaxMemoryBytes(t *testing.T) {
	d := baseDescriptor()
	assert.True(t, Criteria{MaxMemoryBytes: 700 << 20}.Matches(d))
	assert.False(t, Criteria{MaxMemoryBytes: 500 << 20}.Matches(d))
}

func TestCriteria_ContextLengthBounds(t *testing.T) {
	d := baseDescriptor()
	assert.True(t, Criteria{MinContextLength: 1024, MaxContextLength: 4096}.Matches(d))
	assert.False(t, Criteria{MinContextLength: 4096}.Matches(d))
	assert.False(t, Criteria{MaxContextLength: 1024}.Matches(d))
}

func TestCriteria_RequiresNeuralAccelerator(t *testing.T) {
	d := baseDescriptor()
	assert.False(t, Criteria{RequiresNeuralAccelerator: true}.Matches(d))

	d.CompatibleBackends = []FrameworkTag{FrameworkCoreML}
	assert.True(t, Criteria{RequiresNeuralAccelerator: true}.Matches(d))
}

func TestCriteria_QuantizationContains(t *testing.T) {
	d := baseDescriptor()
	assert.True(t, Criteria{QuantizationContains: "q4"}.Matches(d))
	assert.False(t, Criteria{QuantizationContains: "q8"}.Matches(d))
}

func TestCriteria_Search(t *testing.T) {
	d := baseDescriptor()
	assert.True(t, Criteria{Search: "tinyllama"}.Matches(d))
	assert.True(t, Criteria{Search: "gguf"}.Matches(d))
	assert.False(t, Criteria{Search: "nonexistent"}.Matches(d))
}

func TestCriteria_AndCombined(t *testing.T) {
	d := baseDescriptor()
	c := Criteria{Framework: FrameworkLlamaCpp, Format: FormatGGUF, MaxMemoryBytes: 1 << 30}
	assert.True(t, c.Matches(d))

	c.Format = FormatONNX
	assert.False(t, c.Matches(d))
}
