package client

import "context"

// SessionState is the three-way gate every screen waits on at startup.
type SessionState int

const (
	// SessionLoading means the session check has not completed yet.
	SessionLoading SessionState = iota
	// SessionAuthenticated means a valid session exists.
	SessionAuthenticated
	// SessionUnauthenticated means there is no usable session. A failed
	// check lands here too; the gate never surfaces an error state.
	SessionUnauthenticated
)

// Session resolves the startup gate for a Client.
type Session struct {
	api   *Client
	state SessionState
	user  *User
}

// NewSession returns a Session in the loading state.
func NewSession(api *Client) *Session {
	return &Session{api: api, state: SessionLoading}
}

// State returns the current gate state.
func (s *Session) State() SessionState { return s.state }

// User returns the resolved user, nil unless authenticated.
func (s *Session) User() *User { return s.user }

// Check resolves the gate by fetching the profile with the installed token.
// Any failure, network or auth, resolves to unauthenticated.
func (s *Session) Check(ctx context.Context) SessionState {
	if s.api.Token() == "" {
		s.state = SessionUnauthenticated
		s.user = nil
		return s.state
	}

	user, err := s.api.Profile(ctx)
	if err != nil {
		s.state = SessionUnauthenticated
		s.user = nil
		return s.state
	}

	s.state = SessionAuthenticated
	s.user = user
	return s.state
}
