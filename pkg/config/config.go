// Package config defines the typed configuration surface for every
// subsystem (spec §6), loadable from YAML the way the teacher's bundled
// manifests are (gopkg.in/yaml.v3). Default() supplies the default values,
// and Load starts from them so a file only needs the fields it overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DownloadConfig configures the download engine (C4).
type DownloadConfig struct {
	MaxConcurrent  int           `yaml:"max_concurrent"`
	RetryCount     int           `yaml:"retry_count"`
	RetryDelay     time.Duration `yaml:"retry_delay"`
	StorageRoot    string        `yaml:"storage_root"`
}

// VADConfig configures voice activity detection (C8).
type VADConfig struct {
	FrameDurationMS    int     `yaml:"frame_duration_ms"`
	SpeechThreshold    float64 `yaml:"speech_threshold"`
	ContentThreshold   float64 `yaml:"content_threshold"`
	MinSpeechDurationMS int    `yaml:"min_speech_duration_ms"`
}

// STTConfig configures the speech-to-text stage.
type STTConfig struct {
	Framework string `yaml:"framework"`
	ModelID   string `yaml:"model_id"`
	Language  string `yaml:"language"`
}

// LLMConfig configures the text-generation stage.
type LLMConfig struct {
	Framework   string  `yaml:"framework"`
	ModelID     string  `yaml:"model_id"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TopP        float64 `yaml:"top_p"`
	TopK        int     `yaml:"top_k"`
}

// TTSConfig configures the text-to-speech stage.
type TTSConfig struct {
	Framework string `yaml:"framework"`
	Voice     string `yaml:"voice"`
}

// Config is the root configuration object, typically loaded once at
// startup from a YAML file and threaded through to each subsystem's
// constructor.
type Config struct {
	LogLevel string         `yaml:"log_level"`
	Download DownloadConfig `yaml:"download"`
	VAD      VADConfig      `yaml:"vad"`
	STT      STTConfig      `yaml:"stt"`
	LLM      LLMConfig      `yaml:"llm"`
	TTS      TTSConfig      `yaml:"tts"`
}

// Default returns a Config with every field set to the defaults named
// throughout spec §6.
func Default() Config {
	return Config{
		LogLevel: "info",
		Download: DownloadConfig{
			MaxConcurrent: 2,
			RetryCount:    3,
			RetryDelay:    time.Second,
		},
		VAD: VADConfig{
			FrameDurationMS:     100,
			SpeechThreshold:     0.025,
			ContentThreshold:    0.005,
			MinSpeechDurationMS: 1000,
		},
		LLM: LLMConfig{
			MaxTokens:   256,
			Temperature: 0,
			TopP:        1,
		},
	}
}

// Load reads and parses a YAML config file, starting from Default() so any
// field the file omits keeps its default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
