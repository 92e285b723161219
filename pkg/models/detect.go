package models

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ggufparser "github.com/gpustack/gguf-parser-go"
)

// ggufMagic is the four-byte ASCII header every GGUF file begins with,
// followed by a little-endian u32 version (spec §6).
var ggufMagic = [4]byte{'G', 'G', 'U', 'F'}

// onnxSentinel is the leading byte sequence of an ONNX protobuf model: field 1
// (ir_version, varint) tag byte 0x08 is the overwhelmingly common case for
// files produced by onnx.save_model, and is used here only as a fast,
// best-effort sentinel — a miss simply falls through to "unknown" rather
// than being treated as an error (spec §4.1: failures are non-fatal).
var onnxSentinel = byte(0x08)

// tfliteIdentifier is the FlatBuffers file_identifier embedded at offset 4
// for TensorFlow Lite's schema ("TFL3").
var tfliteIdentifier = []byte("TFL3")

// DetectFormat classifies a filesystem path per the layered decision in
// spec §4.1: directory shape, extension, then magic bytes. Sibling files are
// not consulted; a path none of these layers recognizes is FormatUnknown.
// It never returns an error for "format not recognized" — only for paths
// that cannot be read at all.
func DetectFormat(path string) (Format, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return FormatUnknown, err
		}
		return FormatUnknown, err
	}

	if info.IsDir() {
		return detectDirectoryFormat(path)
	}

	// ".bin" is ambiguous across multiple frameworks (spec §4.1): a
	// conclusive magic-byte match takes priority over it, so a GGUF file
	// that happens to be named "model.bin" is still classified as GGUF.
	if format, ok := detectByExtension(path); ok && format != FormatBin {
		return format, nil
	}

	if format, ok, err := detectByMagicBytes(path); err != nil {
		return FormatUnknown, err
	} else if ok {
		return format, nil
	}

	if format, ok := detectByExtension(path); ok {
		return format, nil
	}

	return FormatUnknown, nil
}

func detectDirectoryFormat(path string) (Format, error) {
	if strings.HasSuffix(strings.ToLower(path), ".mlpackage") {
		if _, err := os.Stat(filepath.Join(path, "Manifest.json")); err == nil {
			return FormatMLPackage, nil
		}
	}
	return FormatUnknown, nil
}

func detectByExtension(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mlmodel":
		return FormatMLModel, true
	case ".mlpackage":
		return FormatMLPackage, true
	case ".tflite":
		return FormatTFLite, true
	case ".onnx":
		return FormatONNX, true
	case ".ort":
		return FormatORT, true
	case ".safetensors":
		return FormatSafetensors, true
	case ".gguf":
		return FormatGGUF, true
	case ".ggml":
		return FormatGGML, true
	case ".pte":
		return FormatPTE, true
	case ".bin":
		return FormatBin, true
	}
	return FormatUnknown, false
}

func detectByMagicBytes(path string) (Format, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, false, err
	}
	defer f.Close()

	header := make([]byte, 16)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return FormatUnknown, false, err
	}
	header = header[:n]

	if len(header) >= 4 && bytes.Equal(header[:4], ggufMagic[:]) {
		return FormatGGUF, true, nil
	}
	if len(header) >= 8 && bytes.Equal(header[4:8], tfliteIdentifier) {
		return FormatTFLite, true, nil
	}
	if len(header) >= 1 && header[0] == onnxSentinel {
		return FormatONNX, true, nil
	}
	return FormatUnknown, false, nil
}

// GGUFVersion reads the version field following the magic header. Returns
// an error if the file does not begin with the GGUF magic.
func GGUFVersion(path string) (uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	header := make([]byte, 4)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, err
	}
	if !bytes.Equal(header, ggufMagic[:]) {
		return 0, errors.New("models: not a GGUF file")
	}
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return 0, err
	}
	return version, nil
}

// InferTokenizer inspects sibling file names present next to a model
// artifact and returns the tokenizer tag per spec §4.1's mapping. Absent any
// recognized sibling, returns TokenizerUnknown (not an error).
func InferTokenizer(siblingNames []string) TokenizerTag {
	for _, name := range siblingNames {
		lower := strings.ToLower(name)
		switch {
		case lower == "tokenizer.json":
			return TokenizerHuggingFace
		case strings.HasPrefix(lower, "sentencepiece"):
			return TokenizerSentencePiece
		case lower == "vocab.txt":
			return TokenizerWordPiece
		case strings.HasSuffix(lower, ".bpe"):
			return TokenizerBPE
		}
	}
	return TokenizerUnknown
}

// ExtractMetadata reads best-effort structural metadata for a model path.
// Missing fields are left at their zero value rather than guessed, per
// spec §4.1. I/O failures that prevent reading the path at all are returned
// as errors; an unrecognized or partially-readable format simply yields
// whatever subset of metadata could be determined.
func ExtractMetadata(path string, format Format) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, err
	}
	f.Close()

	dir := filepath.Dir(path)
	siblings, err := siblingNames(dir)
	if err != nil {
		siblings = nil
	}

	md := Metadata{Extra: map[string]string{}}

	switch format {
	case FormatGGUF:
		extractGGUFMetadata(path, &md)
	case FormatMLPackage:
		extractMLPackageMetadata(path, &md)
	}

	if tok := InferTokenizer(siblings); tok != TokenizerUnknown {
		md.Extra["tokenizer"] = string(tok)
	}

	return md, nil
}

func siblingNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// extractGGUFMetadata reads the GGUF key-value header, preferring
// gguf-parser-go (the same library the model-cards-cli's internal/gguf
// package wraps) for its richer field decoding, falling back to the
// minimal hand-rolled reader below for files the library rejects as
// malformed. Any failure is swallowed: the caller gets whatever fields
// were read before the failure, per the "best-effort, never fail"
// contract (spec §4.1).
func extractGGUFMetadata(path string, md *Metadata) {
	if extractGGUFMetadataViaParser(path, md) {
		return
	}
	extractGGUFMetadataManual(path, md)
}

func extractGGUFMetadataViaParser(path string, md *Metadata) bool {
	gf, err := ggufparser.ParseGGUFFile(path, ggufparser.SkipLargeMetadata())
	if err != nil {
		return false
	}
	meta := gf.Metadata()
	md.Architecture = meta.Architecture
	md.Extra["file_type"] = fmt.Sprintf("%v", meta.FileType)

	if kv, found := gf.Header.MetadataKV.Get("general.name"); found {
		md.Extra["name"] = kv.ValueString()
	}
	if kv, found := gf.Header.MetadataKV.Get("general.description"); found {
		md.Description = kv.ValueString()
	}
	if kv, found := gf.Header.MetadataKV.Get("general.author"); found {
		md.Author = kv.ValueString()
	}
	if kv, found := gf.Header.MetadataKV.Get("general.quantization_version"); found {
		md.Quantization = fmt.Sprintf("%v", kv.ValueUint32())
	}
	if meta.Architecture != "" {
		if kv, found := gf.Header.MetadataKV.Get(meta.Architecture + ".context_length"); found {
			md.ContextLength = int64(kv.ValueUint32())
		}
	}
	return true
}

// extractGGUFMetadataManual reads the GGUF key-value header directly,
// following the format's own self-description, for files the library in
// extractGGUFMetadataViaParser rejects (e.g. truncated or partially
// written downloads still being inspected mid-transfer).
func extractGGUFMetadataManual(path string, md *Metadata) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil || header != ggufMagic {
		return
	}
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return
	}
	var tensorCount, kvCount uint64
	if version >= 2 {
		if err := binary.Read(r, binary.LittleEndian, &tensorCount); err != nil {
			return
		}
		if err := binary.Read(r, binary.LittleEndian, &kvCount); err != nil {
			return
		}
	} else {
		var t32, k32 uint32
		if err := binary.Read(r, binary.LittleEndian, &t32); err != nil {
			return
		}
		if err := binary.Read(r, binary.LittleEndian, &k32); err != nil {
			return
		}
		tensorCount, kvCount = uint64(t32), uint64(k32)
	}
	_ = tensorCount

	for i := uint64(0); i < kvCount && i < 4096; i++ {
		key, ok := readGGUFString(r)
		if !ok {
			return
		}
		valueType, err := readUint32(r)
		if err != nil {
			return
		}
		value, ok := readGGUFValue(r, valueType)
		if !ok {
			return
		}
		applyGGUFKey(md, key, value)
	}
}

const (
	ggufTypeUint8 uint32 = iota
	ggufTypeInt8
	ggufTypeUint16
	ggufTypeInt16
	ggufTypeUint32
	ggufTypeInt32
	ggufTypeFloat32
	ggufTypeBool
	ggufTypeString
	ggufTypeArray
	ggufTypeUint64
	ggufTypeInt64
	ggufTypeFloat64
)

func readUint32(r io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readUint64(r io.Reader) (uint64, error) {
	var v uint64
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readGGUFString(r io.Reader) (string, bool) {
	length, err := readUint64(r)
	if err != nil || length > 1<<20 {
		return "", false
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", false
	}
	return string(buf), true
}

// readGGUFValue reads and discards-or-returns a scalar GGUF value. Arrays
// are skipped: their elements are read and dropped, since none of the
// metadata fields this extractor populates are array-typed.
func readGGUFValue(r io.Reader, valueType uint32) (any, bool) {
	switch valueType {
	case ggufTypeUint8, ggufTypeInt8, ggufTypeBool:
		var v uint8
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return nil, false
		}
		return v, true
	case ggufTypeUint16, ggufTypeInt16:
		var v uint16
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return nil, false
		}
		return v, true
	case ggufTypeUint32, ggufTypeInt32, ggufTypeFloat32:
		v, err := readUint32(r)
		if err != nil {
			return nil, false
		}
		return v, true
	case ggufTypeUint64, ggufTypeInt64, ggufTypeFloat64:
		v, err := readUint64(r)
		if err != nil {
			return nil, false
		}
		return v, true
	case ggufTypeString:
		v, ok := readGGUFString(r)
		return v, ok
	case ggufTypeArray:
		elemType, err := readUint32(r)
		if err != nil {
			return nil, false
		}
		count, err := readUint64(r)
		if err != nil {
			return nil, false
		}
		for i := uint64(0); i < count; i++ {
			if _, ok := readGGUFValue(r, elemType); !ok {
				return nil, false
			}
		}
		return nil, true
	default:
		return nil, false
	}
}

func applyGGUFKey(md *Metadata, key string, value any) {
	switch key {
	case "general.architecture":
		if s, ok := value.(string); ok {
			md.Architecture = s
		}
	case "general.name":
		if s, ok := value.(string); ok {
			md.Extra["name"] = s
		}
	case "general.description":
		if s, ok := value.(string); ok {
			md.Description = s
		}
	case "general.author":
		if s, ok := value.(string); ok {
			md.Author = s
		}
	case "general.quantization_version":
		md.Quantization = toInt64String(value)
	case "general.file_type":
		md.Extra["file_type"] = toInt64String(value)
	default:
		if strings.HasSuffix(key, ".context_length") {
			md.ContextLength = toInt64(value)
		}
	}
}

func toInt64(value any) int64 {
	switch v := value.(type) {
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return int64(v)
	default:
		return 0
	}
}

func toInt64String(value any) string {
	n := toInt64(value)
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

// extractMLPackageMetadata reads the Core ML Manifest.json for basic
// provenance fields. Core ML manifests carry an "itemInfoEntries" map
// rather than a flat metadata block; this extractor reads only the fields
// that are always present regardless of Core ML tool version.
func extractMLPackageMetadata(path string, md *Metadata) {
	data, err := os.ReadFile(filepath.Join(path, "Manifest.json"))
	if err != nil {
		return
	}
	var manifest struct {
		FileFormatVersion string `json:"fileFormatVersion"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return
	}
	md.Version = manifest.FileFormatVersion
}
