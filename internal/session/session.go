// Package session holds the client-side state of one open chat: which
// conversation is active and whether a send is in flight. The state lives
// in an explicit Session value rather than ambient globals, so several
// sessions can coexist in one process.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/quetzal-chat/quetzal/internal/domain"
)

// Store is the slice of conversation persistence a session needs.
type Store interface {
	CreateConversation(ctx context.Context, userID uint, title string) (uint, error)
	AppendMessage(ctx context.Context, conversationID uint, role, text string) error
	ListMessages(ctx context.Context, conversationID uint) ([]domain.Message, error)
}

// Resolver produces the answer for a user message. A server-backed
// implementation never fails (it degrades internally); a transport-backed
// one may return a connection error.
type Resolver interface {
	Resolve(ctx context.Context, text string) (string, error)
}

// State of a session. Transitions: Idle -> Sending on submit,
// Sending -> Idle once the exchange is persisted (or failed).
type State int

const (
	StateIdle State = iota
	StateSending
)

var (
	// ErrSendInFlight rejects a submission while another one from the same
	// session is still being processed. No queuing: the caller retries
	// after the current send finishes.
	ErrSendInFlight = errors.New("a message is already being sent")
	ErrEmptyMessage = errors.New("message text is empty")
)

// Session coordinates one user's active chat.
type Session struct {
	userID   uint
	store    Store
	resolver Resolver

	mu       sync.Mutex
	state    State
	activeID uint
}

func New(userID uint, store Store, resolver Resolver) *Session {
	return &Session{userID: userID, store: store, resolver: resolver}
}

// Send runs one exchange: lazily create the conversation, persist the user
// message, resolve the answer, persist it, return it. While a send is in
// flight further Send calls return ErrSendInFlight.
func (s *Session) Send(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}

	s.mu.Lock()
	if s.state == StateSending {
		s.mu.Unlock()
		return "", ErrSendInFlight
	}
	s.state = StateSending
	active := s.activeID
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state = StateIdle
		s.mu.Unlock()
	}()

	if active == 0 {
		id, err := s.store.CreateConversation(ctx, s.userID, domain.DeriveTitle(text))
		if err != nil {
			return "", err
		}
		active = id
		s.mu.Lock()
		s.activeID = id
		s.mu.Unlock()
	}

	if err := s.store.AppendMessage(ctx, active, domain.RoleUser, text); err != nil {
		return "", err
	}

	answer, err := s.resolver.Resolve(ctx, text)
	if err != nil {
		return "", err
	}

	if err := s.store.AppendMessage(ctx, active, domain.RoleBot, answer); err != nil {
		return "", err
	}

	return answer, nil
}

// LoadConversation switches the session to a stored conversation and
// returns its messages. Nothing is re-resolved.
func (s *Session) LoadConversation(ctx context.Context, id uint) ([]domain.Message, error) {
	s.mu.Lock()
	if s.state == StateSending {
		s.mu.Unlock()
		return nil, ErrSendInFlight
	}
	s.mu.Unlock()

	messages, err := s.store.ListMessages(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.activeID = id
	s.mu.Unlock()
	return messages, nil
}

// StartNew clears the active conversation without deleting anything; the
// next Send creates a fresh one.
func (s *Session) StartNew() {
	s.mu.Lock()
	s.activeID = 0
	s.mu.Unlock()
}

// ActiveConversation returns the id of the conversation the session is in,
// or 0 when a new chat has not been persisted yet.
func (s *Session) ActiveConversation() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// State reports whether a send is currently in flight.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
