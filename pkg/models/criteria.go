package models

import "strings"

// Criteria filters the registry (spec §4.2). Every non-zero field is
// AND-combined; a zero-valued field (empty string, zero int, false, nil
// slice) is ignored rather than treated as "match nothing" or "match
// everything", so callers compose criteria by only setting what they care
// about.
type Criteria struct {
	Framework               FrameworkTag
	Format                  Format
	MaxMemoryBytes          int64
	MinContextLength        int64
	MaxContextLength        int64
	RequiresNeuralAccelerator bool
	QuantizationContains    string
	Search                  string
}

// Matches reports whether d satisfies every set field in c.
func (c Criteria) Matches(d Descriptor) bool {
	if c.Framework != "" && !containsFramework(d.CompatibleBackends, c.Framework) {
		return false
	}
	if c.Format != "" && d.Format != c.Format {
		return false
	}
	if c.MaxMemoryBytes > 0 && d.EstimatedMemoryBytes > c.MaxMemoryBytes {
		return false
	}
	if c.MinContextLength > 0 && d.ContextLength < c.MinContextLength {
		return false
	}
	if c.MaxContextLength > 0 && d.ContextLength > c.MaxContextLength {
		return false
	}
	if c.RequiresNeuralAccelerator && !requiresNeuralAccelerator(d) {
		return false
	}
	if c.QuantizationContains != "" && !strings.Contains(
		strings.ToLower(d.Metadata.Quantization), strings.ToLower(c.QuantizationContains)) {
		return false
	}
	if c.Search != "" {
		needle := strings.ToLower(c.Search)
		haystack := strings.ToLower(d.DisplayName + " " + d.ID + " " + string(d.Format))
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

func containsFramework(backends []FrameworkTag, target FrameworkTag) bool {
	for _, b := range backends {
		if b == target {
			return true
		}
	}
	return false
}

// requiresNeuralAccelerator reports whether a descriptor's compatible
// backends include one that is meaningless without dedicated ML silicon
// (spec §4.2's "requires-neural-accelerator" filter). CoreML's ANE path and
// MediaPipe's delegate-based GPU/NPU acceleration are the two framework tags
// this repo treats that way; a future framework added to AllFrameworks that
// also requires one should be added here.
func requiresNeuralAccelerator(d Descriptor) bool {
	for _, b := range d.CompatibleBackends {
		if b == FrameworkCoreML || b == FrameworkMediaPipe {
			return true
		}
	}
	return false
}
