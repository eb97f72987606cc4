// Package session holds the authenticated user for the lifetime of the app.
// A single Context is created at startup and handed to every screen.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"timeoff-login/internal/domain"
)

// Session is the record placed in the context by a successful login.
type Session struct {
	ID        uuid.UUID
	User      domain.User
	StartedAt time.Time
}

type Context struct {
	mu      sync.RWMutex
	current *Session
	now     func() time.Time
}

func NewContext() *Context {
	return &Context{now: time.Now}
}

// Login stores user as the authenticated user, replacing any previous one.
func (c *Context) Login(_ context.Context, user domain.User) (Session, error) {
	s := Session{
		ID:        uuid.New(),
		User:      user,
		StartedAt: c.now().UTC(),
	}

	c.mu.Lock()
	c.current = &s
	c.mu.Unlock()
	return s, nil
}

// Logout clears the authenticated user.
func (c *Context) Logout() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}

// Current returns the active session, if any.
func (c *Context) Current() (Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return Session{}, false
	}
	return *c.current, true
}

// User returns the authenticated user, if any.
func (c *Context) User() (domain.User, bool) {
	s, ok := c.Current()
	return s.User, ok
}
