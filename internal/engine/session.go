package engine

import (
	"sync"

	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
)

// Session is the per-surface state of an interactive user: the staff unlock
// flag and the last phone signed in. Nothing in a Session is persisted.
//
// Session implements loyalty.Gate, so it can be passed straight to the
// staff and admin methods of the engine.
type Session struct {
	mu        sync.Mutex
	engine    *Engine
	unlocked  bool
	lastPhone string
}

// NewSession starts a locked session with no remembered phone.
func (e *Engine) NewSession() *Session {
	return &Session{engine: e}
}

// Unlock compares pin with the merchant PIN in force and records the result.
// A wrong PIN locks a previously unlocked session.
func (s *Session) Unlock(pin string) bool {
	ok := loyalty.Unlock(s.engine.Settings(), pin)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.unlocked = ok
	return ok
}

// Lock forgets the unlock.
func (s *Session) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unlocked = false
}

// Unlocked reports the current unlock state.
func (s *Session) Unlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unlocked
}

// Authorized implements loyalty.Gate.
func (s *Session) Authorized(loyalty.RewardSettings) bool {
	return s.Unlocked()
}

// Remember stores the normalized phone of the last sign-in.
func (s *Session) Remember(phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPhone = loyalty.NormalizePhone(phone)
}

// LastPhone returns the remembered phone, or "".
func (s *Session) LastPhone() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPhone
}
