package recording

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/daybook/pkg/core"
	"golang.org/x/sync/errgroup"
)

// State is a recording session state.
type State string

const (
	StateIdle       State = "idle"
	StateRequesting State = "requesting"
	StateRecording  State = "recording"
	StateStopping   State = "stopping"
	StatePending    State = "pending"
)

// Event drives a session transition.
type Event string

const (
	EventStartRequested    Event = "start-requested"
	EventPermissionGranted Event = "permission-granted"
	EventAcquisitionFailed Event = "acquisition-failed"
	EventChunkReceived     Event = "chunk-received"
	EventStopRequested     Event = "stop-requested"
	EventFinalized         Event = "finalized"
	EventSaved             Event = "saved"
	EventDiscarded         Event = "discarded"
	EventClosed            Event = "closed"
)

// Status messages shown to the user.
const (
	StatusRequesting = "Requesting microphone access..."
	StatusRecording  = "Recording in progress..."
	StatusProcessing = "Processing recording..."
	StatusCaptured   = "Recording captured! Add a title or notes, then save."
	StatusSaved      = "Voice note saved."
	StatusDiscarded  = "Recording discarded."
)

// Transition is reported to the observer for every event.
type Transition struct {
	Event  Event
	From   State
	To     State
	Status string
}

// Draft is a finished capture awaiting save or discard.
type Draft struct {
	AudioData  string
	MimeType   string
	Size       int
	CapturedAt time.Time
}

// NoteAppender receives saved notes. *core.NoteStore implements it.
type NoteAppender interface {
	Append(ctx context.Context, note core.VoiceNote) error
}

// Config wires a Session to its collaborators.
type Config struct {
	Capturer Capturer
	Notes    NoteAppender
	IDs      core.IDGenerator
	Clock    core.Clock
	Logger   *slog.Logger

	// LocalSession reports a local (secure) context. Defaults to LocalSession.
	LocalSession func() bool

	// Observer receives every transition. It runs with the session locked
	// and must not call back into the Session.
	Observer func(Transition)
}

// Session runs at most one capture at a time.
type Session struct {
	cfg       Config
	logger    *slog.Logger
	supported bool
	format    Format

	mu      sync.Mutex
	state   State
	status  string
	stream  Stream
	pump    *errgroup.Group
	chunks  [][]byte
	size    int
	draft   *Draft
	lastErr *CaptureError
}

// NewSession evaluates capture capability once and returns an idle session.
func NewSession(cfg Config) *Session {
	if cfg.Clock == nil {
		cfg.Clock = core.SystemClock
	}
	if cfg.IDs == nil {
		cfg.IDs = core.SelectIDGenerator(cfg.Clock)
	}
	if cfg.LocalSession == nil {
		cfg.LocalSession = LocalSession
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Session{cfg: cfg, logger: logger, state: StateIdle}
	if cfg.Capturer != nil && cfg.Capturer.Supported() {
		s.format, s.supported = SelectFormat(cfg.Capturer.Formats())
	}
	if !s.supported {
		s.status = ReasonMessage(ReasonUnsupported)
	}
	return s
}

// Supported reports whether recording is possible on this system.
func (s *Session) Supported() bool { return s.supported }

// Format is the encoding selected at construction.
func (s *Session) Format() Format { return s.format }

// Current returns the current state.
func (s *Session) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status returns the last user-facing status message.
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Draft returns the pending capture, if any.
func (s *Session) Draft() (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return Draft{}, false
	}
	return *s.draft, true
}

// Start acquires the microphone and begins buffering audio.
// It is a no-op while a capture is already in progress.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if !s.supported {
		err := &CaptureError{Reason: ReasonUnsupported}
		s.fail(EventAcquisitionFailed, err)
		s.mu.Unlock()
		return err
	}
	switch s.state {
	case StateRequesting, StateRecording, StateStopping:
		s.mu.Unlock()
		return nil
	case StatePending:
		s.logger.Debug("dropping unsaved recording", "size", s.draft.Size)
		s.draft = nil
	}
	s.lastErr = nil
	s.transition(EventStartRequested, StateRequesting, StatusRequesting)
	s.mu.Unlock()

	stream, err := s.cfg.Capturer.Open(ctx, s.format)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		ce := &CaptureError{Reason: classify(err, s.cfg.LocalSession()), Err: err}
		s.logger.Warn("microphone acquisition failed", "reason", ce.Reason, "error", err)
		s.fail(EventAcquisitionFailed, ce)
		return ce
	}
	if s.state != StateRequesting {
		// Closed while waiting for the device.
		_ = stream.Close()
		return nil
	}

	s.stream = stream
	s.chunks = nil
	s.size = 0
	g := new(errgroup.Group)
	g.Go(func() error {
		for chunk := range stream.Chunks() {
			s.receive(chunk)
		}
		return nil
	})
	s.pump = g
	s.transition(EventPermissionGranted, StateRecording, StatusRecording)
	s.logger.Info("recording started", "format", s.format.Name, "mime", s.format.MimeType)
	return nil
}

func (s *Session) receive(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	buf := make([]byte, len(chunk))
	copy(buf, chunk)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, buf)
	s.size += len(buf)
	s.transition(EventChunkReceived, s.state, s.status)
}

// Stop finalizes the capture into a pending draft.
// Outside of Recording it does nothing.
func (s *Session) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateRecording {
		s.mu.Unlock()
		return nil
	}
	stream, pump := s.stream, s.pump
	s.transition(EventStopRequested, StateStopping, StatusProcessing)
	s.mu.Unlock()

	if err := stream.Stop(); err != nil {
		s.logger.Debug("stream stop", "error", err)
	}

	done := make(chan struct{})
	go func() {
		_ = pump.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("recording did not finalize in time, releasing device", "error", ctx.Err())
		_ = stream.Close()
		<-done
	}
	if err := stream.Close(); err != nil {
		s.logger.Debug("stream close", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stream, s.pump = nil, nil
	chunks, size := s.chunks, s.size
	s.chunks, s.size = nil, 0

	if size == 0 {
		err := &CaptureError{Reason: ReasonEmptyCapture}
		s.draft = nil
		s.fail(EventFinalized, err)
		return err
	}

	s.draft = &Draft{
		AudioData:  EncodeDataURL(s.format.MimeType, bytes.Join(chunks, nil)),
		MimeType:   s.format.MimeType,
		Size:       size,
		CapturedAt: s.cfg.Clock.Now(),
	}
	s.transition(EventFinalized, StatePending, StatusCaptured)
	s.logger.Info("recording captured", "bytes", size, "chunks", len(chunks))
	return nil
}

// Save stores the pending draft as a voice note and returns to Idle.
// A blank title falls back to DefaultNoteTitle.
func (s *Session) Save(ctx context.Context, title, description string) (core.VoiceNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePending || s.draft == nil {
		return core.VoiceNote{}, ErrNoDraft
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = core.DefaultNoteTitle(s.draft.CapturedAt)
	}
	note := core.VoiceNote{
		ID:          s.cfg.IDs.NewID(),
		Title:       title,
		Description: strings.TrimSpace(description),
		AudioData:   s.draft.AudioData,
		CreatedAt:   s.draft.CapturedAt,
	}
	if s.cfg.Notes == nil {
		return core.VoiceNote{}, fmt.Errorf("save voice note: no note store configured")
	}
	if err := s.cfg.Notes.Append(ctx, note); err != nil {
		return core.VoiceNote{}, fmt.Errorf("save voice note: %w", err)
	}

	s.draft = nil
	s.transition(EventSaved, StateIdle, StatusSaved)
	return note, nil
}

// Discard drops the pending draft. The note store is never touched.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePending {
		return
	}
	s.draft = nil
	s.transition(EventDiscarded, StateIdle, StatusDiscarded)
}

// Close stops an active capture and releases the device.
// A capture finalized here stays pending; the caller decides whether to save it.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	state := s.state
	if state == StateRequesting {
		s.transition(EventClosed, StateIdle, "")
	}
	s.mu.Unlock()

	if state != StateRecording {
		return nil
	}
	err := s.Stop(ctx)
	var ce *CaptureError
	if errors.As(err, &ce) && ce.Reason == ReasonEmptyCapture {
		return nil
	}
	return err
}

// transition must be called with s.mu held.
func (s *Session) transition(ev Event, to State, status string) {
	from := s.state
	s.state = to
	s.status = status
	if from != to {
		s.logger.Debug("recording transition", "event", ev, "from", from, "to", to)
	}
	if s.cfg.Observer != nil {
		s.cfg.Observer(Transition{Event: ev, From: from, To: to, Status: status})
	}
}

// fail must be called with s.mu held.
func (s *Session) fail(ev Event, err *CaptureError) {
	s.lastErr = err
	s.transition(ev, StateIdle, err.Message())
}
