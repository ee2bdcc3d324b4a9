// Package chat holds the conversation state of one chat window and the
// submit flow that moves it forward.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apierrors "github.com/diogo/chatbtc/internal/errors"
	"github.com/diogo/chatbtc/internal/models"
)

var (
	// ErrEmptyInput is returned when the input buffer is blank after trimming
	ErrEmptyInput = errors.New("input is empty")
	// ErrBusy is returned when a submit is attempted while a request is in flight
	ErrBusy = errors.New("a response is already pending")
	// ErrClosed is returned by Begin after the session has been closed
	ErrClosed = errors.New("session is closed")
)

// AnswerService answers one free-text question
type AnswerService interface {
	Ask(ctx context.Context, query string) (string, error)
}

// Snapshot is an immutable copy of the session state
type Snapshot struct {
	Messages []models.Message
	Input    string
	Awaiting bool
}

// LastAnswer returns the text of the most recent answer message
func (s Snapshot) LastAnswer() (string, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Kind == models.KindAnswer {
			return s.Messages[i].Text, true
		}
	}
	return "", false
}

// Session owns the transcript, the input buffer and the awaiting flag
type Session struct {
	id     string
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex // Protects messages, input, awaiting, closed
	messages []models.Message
	input    string
	awaiting bool
	closed   bool
}

// SessionOption configures a Session
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	logger *zap.Logger
	parent context.Context
}

// WithLogger sets the logger used for session events
func WithLogger(logger *zap.Logger) SessionOption {
	return func(c *sessionConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithParentContext derives the session context from ctx
func WithParentContext(ctx context.Context) SessionOption {
	return func(c *sessionConfig) {
		if ctx != nil {
			c.parent = ctx
		}
	}
}

// NewSession creates a session seeded with the greeting
func NewSession(opts ...SessionOption) *Session {
	cfg := sessionConfig{
		logger: zap.NewNop(),
		parent: context.Background(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(cfg.parent)

	s := &Session{
		id:       id,
		logger:   cfg.logger.With(zap.String("session", id)),
		ctx:      ctx,
		cancel:   cancel,
		messages: []models.Message{models.AnswerMessage(models.Greeting)},
	}
	s.logger.Debug("session started")
	return s
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Context is cancelled when the session is closed
func (s *Session) Context() context.Context {
	return s.ctx
}

// UpdateInput replaces the input buffer
func (s *Session) UpdateInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

// Begin starts a submit: it appends the raw input as a user message, clears
// the buffer and sets the awaiting flag in one step. It returns the trimmed
// query to send.
func (s *Session) Begin() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrClosed
	}

	query := strings.TrimSpace(s.input)
	if query == "" {
		return "", ErrEmptyInput
	}
	if s.awaiting {
		s.logger.Debug("submit rejected", zap.Error(ErrBusy))
		return "", ErrBusy
	}

	s.messages = append(s.messages, models.UserMessage(s.input))
	s.input = ""
	s.awaiting = true

	s.logger.Debug("submit accepted", zap.Int("query_len", len(query)))
	return query, nil
}

// Resolve finishes a submit with the service outcome. It reports whether the
// outcome was applied; it is dropped when the session is closed or nothing
// is pending.
func (s *Session) Resolve(answer string, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.awaiting {
		s.logger.Debug("outcome dropped", zap.Bool("closed", s.closed))
		return false
	}

	if err == nil && answer == "" {
		err = apierrors.ErrNoAnswer
	}

	if err != nil {
		s.messages = append(s.messages, models.ErrorMessage(apierrors.UserMessage(err)))
		s.logger.Debug("submit failed",
			zap.String("kind", apierrors.Kind(err)),
			zap.Error(err))
	} else {
		s.messages = append(s.messages, models.AnswerMessage(answer))
		s.logger.Debug("submit answered", zap.Int("answer_len", len(answer)))
	}
	s.awaiting = false
	return true
}

// Submit runs a whole submit against svc: Begin, the service call with the
// session context, then Resolve.
func (s *Session) Submit(ctx context.Context, svc AnswerService) error {
	query, err := s.Begin()
	if err != nil {
		return err
	}

	reqCtx, cancel := mergeContext(ctx, s.ctx)
	defer cancel()

	answer, askErr := svc.Ask(reqCtx, query)
	s.Resolve(answer, askErr)
	return nil
}

// Close cancels any in-flight request and stops further mutation
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.logger.Debug("session closed")
}

// IsClosed reports whether Close has been called
func (s *Session) IsClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Messages: copyMessages(s.messages),
		Input:    s.input,
		Awaiting: s.awaiting,
	}
}

// Messages returns a copy of the transcript
func (s *Session) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyMessages(s.messages)
}

// Input returns the input buffer
func (s *Session) Input() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.input
}

// Awaiting reports whether a response is pending
func (s *Session) Awaiting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.awaiting
}

// copyMessages creates a copy of the transcript to avoid races
func copyMessages(m []models.Message) []models.Message {
	result := make([]models.Message, len(m))
	copy(result, m)
	return result
}

// mergeContext returns a context cancelled when either parent is done
func mergeContext(a, b context.Context) (context.Context, context.CancelFunc) {
	if a == nil {
		a = context.Background()
	}
	ctx, cancel := context.WithCancel(a)
	stop := context.AfterFunc(b, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
