package agent

import (
	"context"

	"github.com/tbxark/calltaker/state"
)

// StateReadWriter persists dialogue state between turns, routed by the
// session key in the context.
type StateReadWriter interface {
	Read(ctx context.Context) (*state.State, bool, error)
	Write(ctx context.Context, st *state.State) error
	Remove(ctx context.Context) error
}

type sessionKeyContext struct{}

// WithSessionKey sets the session a call belongs to.
func WithSessionKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, sessionKeyContext{}, key)
}

// SessionKeyFromContext gets the session key from the context.
func SessionKeyFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(sessionKeyContext{})
	if value == nil {
		return "", false
	}
	key, ok := value.(string)
	return key, ok
}

// SessionStore keeps one dialogue state per session.
type SessionStore struct {
	store Store[*state.State]
}

func NewSessionStore(core Cache[*state.State]) *SessionStore {
	return &SessionStore{store: NewStore(core, "calltaker:state", SessionKeyFromContext)}
}

func NewMemorySessionStore() *SessionStore {
	return NewSessionStore(NewMemoryCache[*state.State]())
}

func (s *SessionStore) Read(ctx context.Context) (*state.State, bool, error) {
	st, ok, err := s.store.Get(ctx)
	if err != nil || !ok {
		return nil, false, err
	}
	return st.Clone(), true, nil
}

func (s *SessionStore) Write(ctx context.Context, st *state.State) error {
	return s.store.Set(ctx, st.Clone())
}

func (s *SessionStore) Remove(ctx context.Context) error {
	return s.store.Del(ctx)
}

var _ StateReadWriter = (*SessionStore)(nil)
