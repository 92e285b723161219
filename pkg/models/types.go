// Package models implements the model format detector (C1) and the model
// registry (C2): the canonical set of known models, their structural
// metadata, and lookup/filter/discovery operations over them.
package models

import "time"

// FrameworkTag is the closed enumeration of supported inference backends
// (spec §3).
type FrameworkTag string

const (
	FrameworkCoreML       FrameworkTag = "coreml"
	FrameworkTFLite       FrameworkTag = "tflite"
	FrameworkONNX         FrameworkTag = "onnx"
	FrameworkLlamaCpp     FrameworkTag = "llamacpp"
	FrameworkExecuTorch   FrameworkTag = "executorch"
	FrameworkMLX          FrameworkTag = "mlx"
	FrameworkMediaPipe    FrameworkTag = "mediapipe"
	FrameworkPicoLLM      FrameworkTag = "picollm"
	FrameworkFoundation   FrameworkTag = "foundation"
	FrameworkWhisperKit   FrameworkTag = "whisperkit"
	FrameworkSystemTTS    FrameworkTag = "systemtts"
)

// AllFrameworks lists every recognized framework tag, in a stable order used
// by storage layout enumeration (storage.Manager.ListInstalled).
var AllFrameworks = []FrameworkTag{
	FrameworkCoreML, FrameworkTFLite, FrameworkONNX, FrameworkLlamaCpp,
	FrameworkExecuTorch, FrameworkMLX, FrameworkMediaPipe, FrameworkPicoLLM,
	FrameworkFoundation, FrameworkWhisperKit, FrameworkSystemTTS,
}

// Format is the closed enumeration of recognized model artifact formats
// (spec §3).
type Format string

const (
	FormatMLModel     Format = "mlmodel"
	FormatMLPackage   Format = "mlpackage"
	FormatTFLite      Format = "tflite"
	FormatONNX        Format = "onnx"
	FormatORT         Format = "ort"
	FormatSafetensors Format = "safetensors"
	FormatGGUF        Format = "gguf"
	FormatGGML        Format = "ggml"
	FormatPTE         Format = "pte"
	FormatBin         Format = "bin"
	FormatUnknown     Format = "unknown"
)

// Extension returns the canonical file extension for a format, used when
// composing the deterministic storage path <id>.<ext> (spec §4.3).
func (f Format) Extension() string {
	switch f {
	case FormatMLModel:
		return "mlmodel"
	case FormatMLPackage:
		return "mlpackage"
	case FormatTFLite:
		return "tflite"
	case FormatONNX:
		return "onnx"
	case FormatORT:
		return "ort"
	case FormatSafetensors:
		return "safetensors"
	case FormatGGUF:
		return "gguf"
	case FormatGGML:
		return "ggml"
	case FormatPTE:
		return "pte"
	case FormatBin:
		return "bin"
	default:
		return "bin"
	}
}

// TokenizerTag identifies the tokenizer family inferred from sibling files
// (spec §4.1).
type TokenizerTag string

const (
	TokenizerHuggingFace  TokenizerTag = "huggingface"
	TokenizerSentencePiece TokenizerTag = "sentencepiece"
	TokenizerWordPiece    TokenizerTag = "wordpiece"
	TokenizerBPE          TokenizerTag = "bpe"
	TokenizerUnknown      TokenizerTag = ""
)

// Source reports where a descriptor came from. This is an addition over the
// distilled spec (SPEC_FULL §3) used purely for observability in discovery
// results; it participates in no invariant.
type Source string

const (
	SourceLocal   Source = "local"
	SourceRemote  Source = "remote"
	SourceBundled Source = "bundled"
)

// Metadata is the best-effort structural metadata read by the format
// detector (spec §4.1). Every field may be the zero value if absent; absent
// fields are never guessed.
type Metadata struct {
	Author            string
	Description       string
	Version           string
	ModelType         string
	Architecture      string
	Quantization      string
	ContextLength     int64
	ParameterCount    int64
	InputShapes       [][]int64
	MinimumMemoryBytes int64
	Extra             map[string]string
}

// Descriptor is the Model Descriptor entity (spec §3). Invariants enforced
// by the registry rather than the struct itself: id unique within a
// registry; if LocalPath is set it must exist; CompatibleBackends non-empty
// once installed; PreferredBackend, if set, must be a member of
// CompatibleBackends. Whether the artifact at LocalPath matches Format is
// not checked.
type Descriptor struct {
	ID                 string
	DisplayName        string
	Format             Format
	RemoteURL          string
	LocalPath          string
	Checksum           string
	EstimatedSizeBytes int64
	ContextLength      int64
	EstimatedMemoryBytes int64
	CompatibleBackends []FrameworkTag
	PreferredBackend   FrameworkTag
	Tokenizer          TokenizerTag
	Metadata           Metadata
	SupportsThinking   bool
	Source             Source
	UpdatedAt          time.Time
}

// Validate checks the invariants spec.md §3 places on a Descriptor. It is
// called by the registry on register/update so an invalid descriptor never
// enters the shared map.
func (d *Descriptor) Validate(statPath func(string) (bool, error)) error {
	if d.ID == "" {
		return errEmptyID
	}
	if d.LocalPath != "" && statPath != nil {
		exists, err := statPath(d.LocalPath)
		if err != nil {
			return err
		}
		if !exists {
			return errLocalPathMissing
		}
		if len(d.CompatibleBackends) == 0 {
			return errNoCompatibleBackends
		}
	}
	if d.PreferredBackend != "" {
		found := false
		for _, b := range d.CompatibleBackends {
			if b == d.PreferredBackend {
				found = true
				break
			}
		}
		if !found {
			return errPreferredBackendNotCompatible
		}
	}
	return nil
}

// IsInstalled reports whether the descriptor has a local artifact.
func (d *Descriptor) IsInstalled() bool {
	return d.LocalPath != ""
}
