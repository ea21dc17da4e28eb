// Package session holds one conversation with the assistant: its ordered
// history, the server-assigned continuity id, and the guard that keeps at
// most one request in flight.
package session

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/HMTking/greenify/internal/attachment"
	"github.com/HMTking/greenify/internal/payload"
	"github.com/HMTking/greenify/internal/types"
	"github.com/HMTking/greenify/pkg/plantapi"
)

type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
)

// Turn is one submitted message awaiting its reply.
type Turn struct {
	Message   types.Message
	SessionID types.SessionID
	Parts     []plantapi.Part
}

// Outcome is the result of exchanging a turn with the assistant.
type Outcome struct {
	Reply *plantapi.Reply
	Err   error
}

// Session is a single conversation. The zero value is not usable; call New.
type Session struct {
	transport plantapi.Transport
	inFlight  *semaphore.Weighted

	mu      sync.Mutex
	id      types.SessionID
	history []types.Message
	current *Turn
}

// New creates an idle session with no id and an empty history.
func New(transport plantapi.Transport) *Session {
	return &Session{
		transport: transport,
		inFlight:  semaphore.NewWeighted(1),
	}
}

// Begin enters the submitting state: the user message is appended, the
// buffer is emptied into it and the request is assembled. It returns
// ErrEmpty or ErrInFlight without touching anything when the submission is
// not allowed.
func (s *Session) Begin(text string, buf *attachment.Buffer) (*Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text = strings.TrimSpace(text)
	if text == "" && (buf == nil || buf.Len() == 0) {
		return nil, ErrEmpty
	}
	if !s.inFlight.TryAcquire(1) {
		return nil, ErrInFlight
	}

	var items []*attachment.Attachment
	if buf != nil {
		items = buf.Take()
	}

	msg := types.NewMessage(types.RoleUser, text, items)
	s.history = append(s.history, msg)

	turn := &Turn{
		Message:   msg,
		SessionID: s.id,
		Parts:     payload.Build(text, s.id, items),
	}
	s.current = turn

	slog.Debug("turn started", "session_id", string(s.id), "message_id", string(msg.ID), "parts", payload.Describe(turn.Parts))
	return turn, nil
}

// Exchange sends the turn and waits for the reply. It does not touch the
// session state and may run off the caller's goroutine.
func (s *Session) Exchange(ctx context.Context, turn *Turn) Outcome {
	reply, err := s.transport.Send(ctx, turn.Parts)
	if err == nil && reply == nil {
		err = errEmptyReply
	}
	return Outcome{Reply: reply, Err: err}
}

// Finish leaves the submitting state, appending an Assistant or Error message
// for the outcome. A turn that is not the one in flight is ignored and the
// zero Message is returned.
func (s *Session) Finish(turn *Turn, out Outcome) types.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	if turn == nil || s.current != turn {
		slog.Warn("ignoring stale turn")
		return types.Message{}
	}

	if out.Err == nil && out.Reply == nil {
		out.Err = errEmptyReply
	}

	var msg types.Message
	if out.Err != nil {
		slog.Warn("chat exchange failed", "session_id", string(s.id), "error", out.Err)
		msg = types.NewMessage(types.RoleError, FailureText(out.Err), nil)
	} else {
		msg = types.NewMessage(types.RoleAssistant, out.Reply.Message, nil)
		if s.id == "" && out.Reply.SessionID != "" {
			s.id = types.SessionID(out.Reply.SessionID)
			slog.Info("session established", "session_id", out.Reply.SessionID)
		} else if out.Reply.SessionID != "" && types.SessionID(out.Reply.SessionID) != s.id {
			slog.Debug("ignoring different session id", "session_id", string(s.id), "received", out.Reply.SessionID)
		}
	}

	s.history = append(s.history, msg)
	s.current = nil
	s.inFlight.Release(1)
	return msg
}

// Submit runs a whole turn synchronously and returns the message appended for
// its outcome.
func (s *Session) Submit(ctx context.Context, text string, buf *attachment.Buffer) (types.Message, error) {
	turn, err := s.Begin(text, buf)
	if err != nil {
		return types.Message{}, err
	}
	return s.Finish(turn, s.Exchange(ctx, turn)), nil
}

// ID returns the session id, empty until the first successful reply.
func (s *Session) ID() types.SessionID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return StateSubmitting
	}
	return StateIdle
}

// History returns a copy of the messages in append order.
func (s *Session) History() []types.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// Close releases the previews of every attachment in the history.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, m := range s.history {
		if err := attachment.ReleaseAll(m.Attachments); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
