package ui

import "sync"

const RouteIndex = "/"

// Router is a navigation stack of route names.
type Router struct {
	mu    sync.RWMutex
	stack []string
}

func NewRouter(initial string) *Router {
	if initial == "" {
		initial = RouteIndex
	}
	return &Router{stack: []string{initial}}
}

func (r *Router) Push(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stack = append(r.stack, route)
}

// Back pops the top route. The root route is never popped.
func (r *Router) Back() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stack) <= 1 {
		return false
	}
	r.stack = r.stack[:len(r.stack)-1]
	return true
}

func (r *Router) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stack[len(r.stack)-1]
}
