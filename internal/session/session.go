// Package session owns the per-process transfer session: the active bearer
// token, the exit-on-completion flag, and the exactly-once shutdown trigger
// shared by all concurrent request handlers.
package session

import (
	"sync/atomic"

	"qrdrop/internal/token"
)

// ErrUnauthorized is returned by Authorize for any bad or expired token.
// Handlers must map it to the same not-found response they use for unknown
// routes, so probes cannot tell an expired link from one that never existed.
var ErrUnauthorized = token.ErrUnauthorized

// Session coordinates a single transfer session. Construct it once at
// startup and hand the same instance to every handler.
type Session struct {
	token            *token.Token
	exitOnCompletion bool
	shutdown         func()

	completed atomic.Bool
}

// New creates the session. shutdown is invoked at most once, by the first
// completed transfer, and only when exitOnCompletion is set. It must be
// non-blocking; cancelling the serve loop's context is the intended use.
func New(tok *token.Token, exitOnCompletion bool, shutdown func()) *Session {
	if shutdown == nil {
		shutdown = func() {}
	}
	return &Session{
		token:            tok,
		exitOnCompletion: exitOnCompletion,
		shutdown:         shutdown,
	}
}

// Token returns the session's bearer token.
func (s *Session) Token() *token.Token { return s.token }

// Authorize validates a candidate token string.
func (s *Session) Authorize(candidate string) error {
	return s.token.Validate(candidate)
}

// ReportCompletion records that a transfer fully succeeded. The first call
// wins the flag; when exit-on-completion is enabled that caller also fires
// the shutdown signal. Returns true iff this call triggered shutdown.
// Handlers must only call this after the transfer succeeded end to end; a
// client disconnect is not a completion.
func (s *Session) ReportCompletion() bool {
	if !s.completed.CompareAndSwap(false, true) {
		return false
	}
	if !s.exitOnCompletion {
		return false
	}
	s.shutdown()
	return true
}

// Completed reports whether any transfer has finished.
func (s *Session) Completed() bool { return s.completed.Load() }
