package voice

import (
	"math"
	"time"
)

// VADConfig parameterizes the energy-based voice activity detector (spec
// §4.8). Defaults match the thresholds used by the gRPC VAD server this
// package is grounded on, tuned for 16 kHz mono speech.
type VADConfig struct {
	FrameDuration      time.Duration
	SpeechThreshold    float64
	ContentThreshold   float64
	MinSpeechDuration  time.Duration
}

// DefaultVADConfig returns spec §4.8's default thresholds.
func DefaultVADConfig() VADConfig {
	return VADConfig{
		FrameDuration:     100 * time.Millisecond,
		SpeechThreshold:   0.025,
		ContentThreshold:  0.005,
		MinSpeechDuration: time.Second,
	}
}

// VADEventKind reports an edge-triggered transition from the detector.
type VADEventKind string

const (
	VADNone         VADEventKind = ""
	VADSpeechStart  VADEventKind = "speech-start"
	VADSpeechEnd    VADEventKind = "speech-end"
)

// VAD is a stateful, frame-at-a-time energy detector. It holds no audio
// buffer of its own — per spec §4.8, buffering the speech segment is the
// Pipeline's responsibility, not the detector's — only an in-speech flag,
// a speech frame count and the speech start time. Speech ends on the first
// frame whose energy falls below ContentThreshold; there is no debounce.
type VAD struct {
	cfg VADConfig

	inSpeech     bool
	speechFrames int
	speechStart  time.Time
}

// NewVAD constructs a detector. A zero-valued cfg field falls back to the
// matching DefaultVADConfig() value.
func NewVAD(cfg VADConfig) *VAD {
	defaults := DefaultVADConfig()
	if cfg.FrameDuration <= 0 {
		cfg.FrameDuration = defaults.FrameDuration
	}
	if cfg.SpeechThreshold <= 0 {
		cfg.SpeechThreshold = defaults.SpeechThreshold
	}
	if cfg.ContentThreshold <= 0 {
		cfg.ContentThreshold = defaults.ContentThreshold
	}
	if cfg.MinSpeechDuration <= 0 {
		cfg.MinSpeechDuration = defaults.MinSpeechDuration
	}
	return &VAD{cfg: cfg}
}

// RMS computes the root-mean-square energy of a frame of signed 16-bit PCM
// samples, normalized to [0, 1].
func RMS(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sumSquares float64
	for _, s := range samples {
		norm := float64(s) / math.MaxInt16
		sumSquares += norm * norm
	}
	return math.Sqrt(sumSquares / float64(len(samples)))
}

// ProcessFrame feeds one frame of audio into the detector and returns the
// edge-triggered event, if any, along with the current speech-duration
// accumulator (meaningful only while in-speech, or on the VADSpeechEnd
// frame that just left it).
//
// A speech-start event fires on the first frame whose energy crosses
// SpeechThreshold. A speech-end event fires on the first frame whose
// energy drops back below ContentThreshold, regardless of how long the
// burst lasted — whether the resulting segment is long enough to hand to
// STT is a decision for the caller, not the detector (spec §4.8's
// "minimum speech duration" edge case gates dispatch, not the edge event).
func (v *VAD) ProcessFrame(samples []int16, now time.Time) (VADEventKind, time.Duration) {
	energy := RMS(samples)

	if !v.inSpeech {
		if energy >= v.cfg.SpeechThreshold {
			v.inSpeech = true
			v.speechFrames = 1
			v.speechStart = now
			return VADSpeechStart, 0
		}
		return VADNone, 0
	}

	v.speechFrames++
	elapsed := time.Duration(v.speechFrames) * v.cfg.FrameDuration

	if energy < v.cfg.ContentThreshold {
		v.inSpeech = false
		v.speechFrames = 0
		return VADSpeechEnd, elapsed
	}

	return VADNone, elapsed
}

// Reset returns the detector to its initial, not-in-speech state.
func (v *VAD) Reset() {
	v.inSpeech = false
	v.speechFrames = 0
}

// InSpeech reports whether the detector currently considers itself inside
// a speech segment.
func (v *VAD) InSpeech() bool { return v.inSpeech }
