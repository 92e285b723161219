package voice

import (
	"context"
	"sync"
	"time"

	"github.com/RunanywhereAI/sdks-sub010/pkg/inference"
	"github.com/RunanywhereAI/sdks-sub010/pkg/logging"
)

// sentenceChannelBuffer bounds how many emitted events can be in flight
// before Feed starts applying back-pressure, mirroring the buffered-channel
// sizing in the ASR/LLM/TTS gateway example this pipeline is grounded on.
const sentenceChannelBuffer = 16

// PipelineConfig configures which stages are active and how audio is
// segmented (spec §4.9). Any of VAD, STT, LLM, TTS may be nil: the
// pipeline is composable over whatever subset the caller wires in.
type PipelineConfig struct {
	VAD  *VAD
	STT  STT
	LLM  LLM
	TTS  TTS

	// MaxSpeechDuration bounds how long a single segment may accumulate
	// before the pipeline forcibly ends it and starts processing, even if
	// the VAD hasn't reported speech-end yet. This is the back-pressure
	// bound named in spec §4.9.
	MaxSpeechDuration time.Duration

	// FlushInterval is how often a VAD-less pipeline flushes its audio
	// buffer for processing (spec §4.9's "2s flush when VAD disabled").
	FlushInterval time.Duration

	GenerationOptions inference.GenerationOptions
}

func (c PipelineConfig) withDefaults() PipelineConfig {
	if c.MaxSpeechDuration <= 0 {
		c.MaxSpeechDuration = 30 * time.Second
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = 2 * time.Second
	}
	return c
}

// Pipeline drives a single continuous audio stream through whichever of
// VAD/STT/LLM/TTS are configured, emitting Events on Events() in strict
// per-segment order: speech-started, speech-ended, transcript, a run of
// response-token, response-complete, then one audio-chunk event from TTS.
// Only one segment is processed at a time; Feed buffers new audio while a
// segment is in flight.
type Pipeline struct {
	cfg PipelineConfig
	log logging.Logger

	events chan Event

	mu          sync.Mutex
	buffer      []int16
	scanOffset  int
	sampleRate  int
	channels    int
	bufferStart time.Time
	lastFlush   time.Time

	segmentMu  sync.Mutex
	cancelCurrent context.CancelFunc

	wg sync.WaitGroup
}

// NewPipeline constructs a Pipeline. The caller owns Events()'s channel and
// must keep draining it or Feed will eventually block.
func NewPipeline(cfg PipelineConfig, log logging.Logger) *Pipeline {
	if log == nil {
		log = logging.Discard()
	}
	return &Pipeline{
		cfg:       cfg.withDefaults(),
		log:       logging.WithComponent(log, "voice.pipeline"),
		events:    make(chan Event, sentenceChannelBuffer),
		lastFlush: pipelineNow(),
	}
}

// Events returns the channel the pipeline publishes Events on.
func (p *Pipeline) Events() <-chan Event { return p.events }

// Feed appends a chunk of captured audio to the pipeline's buffer and, if
// a VAD is configured, runs it frame-by-frame to detect speech
// boundaries. It never blocks on STT/LLM/TTS work: segment processing
// always happens on a detached goroutine (spec §4.9).
func (p *Pipeline) Feed(ctx context.Context, chunk AudioChunk) {
	p.mu.Lock()
	if p.sampleRate == 0 {
		p.sampleRate = chunk.SampleRateHz
		p.channels = chunk.Channels
	}
	if len(p.buffer) == 0 {
		p.bufferStart = pipelineNow()
	}
	p.buffer = append(p.buffer, chunk.Samples...)
	bufferedDuration := p.bufferedDurationLocked()
	p.mu.Unlock()

	if p.cfg.VAD == nil {
		if pipelineNow().Sub(p.lastFlushSnapshot()) >= p.cfg.FlushInterval {
			p.flush(ctx)
		}
		return
	}

	frameSize := framesFor(p.cfg.VAD, chunk.SampleRateHz, chunk.Channels)
	if frameSize <= 0 {
		return
	}

	for {
		p.mu.Lock()
		if len(p.buffer)-p.scanOffset < frameSize {
			p.mu.Unlock()
			break
		}
		frame := p.buffer[p.scanOffset : p.scanOffset+frameSize]
		p.scanOffset += frameSize
		p.mu.Unlock()

		eventKind, elapsed := p.cfg.VAD.ProcessFrame(frame, pipelineNow())
		switch eventKind {
		case VADSpeechStart:
			p.emit(Event{Kind: EventSpeechStarted, At: pipelineNow()})
		case VADSpeechEnd:
			p.emit(Event{Kind: EventSpeechEnded, At: pipelineNow()})
			// A burst shorter than MinSpeechDuration never reaches STT; its
			// audio stays buffered and merges with whatever speech follows
			// (spec §4.9: "shorter segments continue to buffer").
			if elapsed >= p.cfg.VAD.cfg.MinSpeechDuration {
				p.flush(ctx)
			}
		}
	}

	if bufferedDuration >= p.cfg.MaxSpeechDuration {
		p.flush(ctx)
	}
}

func (p *Pipeline) bufferedDurationLocked() time.Duration {
	if p.sampleRate <= 0 || p.channels <= 0 {
		return 0
	}
	frames := len(p.buffer) / p.channels
	return time.Duration(frames) * time.Second / time.Duration(p.sampleRate)
}

func (p *Pipeline) lastFlushSnapshot() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastFlush
}

// flush takes whatever audio is currently buffered, clears the buffer, and
// dispatches it for STT/LLM/TTS processing on a detached goroutine.
func (p *Pipeline) flush(ctx context.Context) {
	p.mu.Lock()
	if len(p.buffer) == 0 {
		p.mu.Unlock()
		return
	}
	segment := AudioChunk{
		Samples:      p.buffer,
		SampleRateHz: p.sampleRate,
		Channels:     p.channels,
		CapturedAt:   p.bufferStart,
	}
	p.buffer = nil
	p.scanOffset = 0
	p.lastFlush = pipelineNow()
	p.mu.Unlock()

	if p.cfg.STT != nil && !p.cfg.STT.Ready() {
		p.log.Warn("dropping speech segment: STT backend not ready")
		return
	}

	segCtx, cancel := context.WithCancel(ctx)
	p.segmentMu.Lock()
	if p.cancelCurrent != nil {
		p.cancelCurrent()
	}
	p.cancelCurrent = cancel
	p.segmentMu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer cancel()
		p.processSegment(segCtx, segment)
	}()
}

// Interrupt cancels whatever segment is currently being processed
// (barge-in, spec §4.9/§4.10). The pipeline remains usable afterward: the
// next Feed call starts a fresh segment.
func (p *Pipeline) Interrupt() {
	p.segmentMu.Lock()
	defer p.segmentMu.Unlock()
	if p.cancelCurrent != nil {
		p.cancelCurrent()
	}
}

// Wait blocks until any in-flight segment has finished processing.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// Close stops the pipeline permanently, closing its event channel. Callers
// must ensure no segment is in flight (Interrupt + Wait) before calling
// Close, since a send on a closed channel panics.
func (p *Pipeline) Close() {
	close(p.events)
}

func (p *Pipeline) processSegment(ctx context.Context, segment AudioChunk) {
	text := ""
	if p.cfg.STT != nil {
		transcript, err := p.cfg.STT.Transcribe(ctx, segment)
		if err != nil {
			p.emit(Event{Kind: EventError, Err: err, At: pipelineNow()})
			return
		}
		text = transcript
		p.emit(Event{Kind: EventTranscript, Transcript: text, At: pipelineNow()})
	}

	if p.cfg.LLM == nil {
		return
	}
	if ctx.Err() != nil {
		return
	}

	var response string
	_, err := p.cfg.LLM.StreamGenerate(ctx, text, p.cfg.GenerationOptions, func(tok inference.Token) {
		if tok.Text == "" {
			return
		}
		response += tok.Text
		p.emit(Event{Kind: EventResponseToken, Token: tok.Text, At: pipelineNow()})
	})
	if err != nil && ctx.Err() == nil {
		p.emit(Event{Kind: EventError, Err: err, At: pipelineNow()})
		return
	}
	p.emit(Event{Kind: EventResponseComplete, Transcript: response, At: pipelineNow()})

	if p.cfg.TTS == nil || ctx.Err() != nil {
		return
	}
	audio, err := p.cfg.TTS.Synthesize(ctx, response)
	if err != nil {
		if ctx.Err() == nil {
			p.emit(Event{Kind: EventError, Err: err, At: pipelineNow()})
		}
		return
	}
	p.emit(Event{Kind: EventAudioChunk, Audio: audio, At: pipelineNow()})
}

func (p *Pipeline) emit(e Event) {
	p.events <- e
}

func framesFor(vad *VAD, sampleRateHz, channels int) int {
	if sampleRateHz <= 0 || channels <= 0 {
		return 0
	}
	seconds := vad.cfg.FrameDuration.Seconds()
	return int(float64(sampleRateHz)*seconds) * channels
}

// pipelineNow is a package variable instead of a direct time.Now() call so
// tests can substitute a deterministic clock.
var pipelineNow = time.Now
