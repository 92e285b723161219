package voice

import (
	"context"
	"fmt"
	"sync"

	"github.com/RunanywhereAI/sdks-sub010/pkg/logging"
	"github.com/RunanywhereAI/sdks-sub010/pkg/runanywhereerrors"
)

// AudioSource is a continuous supplier of captured audio, read by the
// session's listening loop. Implementations typically wrap a microphone
// capture callback or a test fixture replaying recorded audio.
type AudioSource interface {
	Read(ctx context.Context) (AudioChunk, error)
}

// Session drives exactly one Pipeline instance through the connect /
// start-listening / stop-listening / interrupt / disconnect state machine
// (C10, spec §4.10). State transitions are serialized by mu; at most one
// goroutine is ever reading from the AudioSource at a time.
type Session struct {
	cfg PipelineConfig
	log logging.Logger

	mu       sync.Mutex
	state    SessionState
	pipeline *Pipeline
	cancel   context.CancelFunc
	done     chan struct{}
	events   chan Event
}

// NewSession constructs a disconnected Session. Connect must be called
// before StartListening.
func NewSession(cfg PipelineConfig, log logging.Logger) *Session {
	if log == nil {
		log = logging.Discard()
	}
	return &Session{
		cfg:   cfg,
		log:   logging.WithComponent(log, "voice.session"),
		state: StateDisconnected,
	}
}

// State returns the session's current state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Connect transitions disconnected -> connecting -> connected, constructing
// a fresh Pipeline. Calling Connect while already connected is a no-op.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateDisconnected && s.state != StateError {
		return nil
	}
	s.state = StateConnecting
	s.pipeline = NewPipeline(s.cfg, s.log)
	s.events = make(chan Event, sentenceChannelBuffer)
	go s.relayEvents(s.pipeline, s.events)
	s.state = StateConnected
	return nil
}

// relayEvents forwards the pipeline's events to the session's public
// channel, updating session state as each event's kind implies a
// processing/speaking/listening transition (spec §4.10). It exits when the
// pipeline's event channel closes, which happens when Disconnect calls
// Pipeline.Close.
func (s *Session) relayEvents(pipeline *Pipeline, out chan<- Event) {
	for e := range pipeline.Events() {
		switch e.Kind {
		case EventSpeechEnded, EventTranscript:
			s.setStateIfListening(StateProcessing)
		case EventAudioChunk:
			s.setStateIfListening(StateSpeaking)
		case EventResponseComplete:
			s.setStateIfActive(StateListening)
		}
		out <- e
	}
}

func (s *Session) setStateIfListening(state SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateListening || s.state == StateProcessing || s.state == StateSpeaking {
		s.state = state
	}
}

func (s *Session) setStateIfActive(state SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateProcessing || s.state == StateSpeaking {
		s.state = state
	}
}

// Disconnect tears the session down unconditionally, interrupting any
// in-flight pipeline work first.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.pipeline != nil {
		s.pipeline.Interrupt()
		s.pipeline.Wait()
		s.pipeline.Close()
	}
	s.pipeline = nil
	s.state = StateDisconnected
}

// StartListening begins reading from source and feeding the pipeline,
// transitioning connected -> listening. It returns immediately; audio
// capture and pipeline processing continue on a background goroutine until
// StopListening, Interrupt-then-reconnect, or Disconnect.
func (s *Session) StartListening(ctx context.Context, source AudioSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateConnected {
		return fmt.Errorf("voice: cannot start listening from state %q", s.state)
	}

	listenCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = StateListening
	s.done = make(chan struct{})

	go s.listenLoop(listenCtx, source, s.done)
	return nil
}

func (s *Session) listenLoop(ctx context.Context, source AudioSource, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		chunk, err := source.Read(ctx)
		if err != nil {
			if ctx.Err() == nil {
				s.log.WithError(err).Warn("audio source read failed")
				s.setState(StateError)
			}
			return
		}
		s.pipeline.Feed(ctx, chunk)
	}
}

// StopListening transitions listening -> connected, stopping audio
// ingestion but leaving the session's pipeline (and any in-flight
// generation) intact.
func (s *Session) StopListening() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateListening && s.state != StateProcessing && s.state != StateSpeaking {
		return
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.state = StateConnected
}

// Interrupt cancels the pipeline's current in-flight segment (barge-in)
// and immediately restarts listening on the same audio source, per spec
// §4.10: "interrupt cancels current pipeline task and starts a fresh one
// bound to the same audio source."
func (s *Session) Interrupt(ctx context.Context, source AudioSource) error {
	s.mu.Lock()
	pipeline := s.pipeline
	wasListening := s.state == StateListening || s.state == StateProcessing || s.state == StateSpeaking
	s.mu.Unlock()

	if pipeline == nil {
		return runanywhereerrors.New(runanywhereerrors.KindNotInitialized, "session is not connected")
	}
	pipeline.Interrupt()

	if !wasListening {
		return nil
	}
	s.StopListening()
	s.mu.Lock()
	s.state = StateConnected
	s.mu.Unlock()
	return s.StartListening(ctx, source)
}

func (s *Session) setState(state SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// Events exposes the underlying pipeline's event stream, or nil if the
// session has never been connected.
func (s *Session) Events() <-chan Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events
}
