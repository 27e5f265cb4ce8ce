// Package appstate holds the state shared by CLI commands during one
// invocation: who is signed in, whether a fetch is in flight, and the error
// messages collected so far.
package appstate

import (
	"context"
	"sync"
)

// User is the signed-in account as shown by the CLI.
type User struct {
	ID       string
	Email    string
	Username string
}

type State struct {
	mu      sync.Mutex
	user    *User
	loading bool
	errors  []string
}

func New() *State {
	return &State{}
}

func (s *State) SetUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// User returns the signed-in user, or nil.
func (s *State) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *State) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *State) AddError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, msg)
}

// Errors returns a copy of the collected messages.
func (s *State) Errors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.errors...)
}

// Reset clears everything. Called on sign-out and before each command.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.loading = false
	s.errors = nil
}

type ctxKey struct{}

func WithState(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the state carried by ctx. A context without one yields
// a fresh, unshared State.
func FromContext(ctx context.Context) *State {
	if s, ok := ctx.Value(ctxKey{}).(*State); ok {
		return s
	}
	return New()
}
