// Package resource exposes CRUD operations over one REST collection and keeps
// the outcome of the latest request as observable state.
package resource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"timeoff-login/internal/apiclient"
)

// Doer sends a request relative to the API base URL.
type Doer interface {
	Do(ctx context.Context, method, path string, body any) (*apiclient.Response, error)
}

// State is a snapshot of a Resource. Data is always a sequence.
type State[T any] struct {
	Data    []T
	Loading bool
	Err     error
}

// Resource issues requests against a collection path. Each call replaces Data
// on success or Err on failure; Loading is true only while a call is running.
type Resource[T any] struct {
	client Doer
	path   string
	logger *logrus.Logger

	mu    sync.RWMutex
	state State[T]
}

func New[T any](client Doer, path string, logger *logrus.Logger) *Resource[T] {
	if logger == nil {
		logger = logrus.New()
	}
	return &Resource[T]{
		client: client,
		path:   strings.Trim(path, "/"),
		logger: logger,
		state:  State[T]{Data: []T{}},
	}
}

// Path returns the collection path.
func (r *Resource[T]) Path() string {
	return r.path
}

// State returns a copy of the current state.
func (r *Resource[T]) State() State[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data := make([]T, len(r.state.Data))
	copy(data, r.state.Data)
	return State[T]{Data: data, Loading: r.state.Loading, Err: r.state.Err}
}

// Data returns a copy of the latest stored sequence.
func (r *Resource[T]) Data() []T {
	return r.State().Data
}

func (r *Resource[T]) GetAll(ctx context.Context) ([]T, error) {
	return r.request(ctx, http.MethodGet, "", nil)
}

func (r *Resource[T]) GetByID(ctx context.Context, id any) ([]T, error) {
	return r.request(ctx, http.MethodGet, idSegment(id), nil)
}

func (r *Resource[T]) Create(ctx context.Context, item any) ([]T, error) {
	return r.request(ctx, http.MethodPost, "", item)
}

func (r *Resource[T]) Update(ctx context.Context, id any, item any) ([]T, error) {
	return r.request(ctx, http.MethodPut, idSegment(id), item)
}

func (r *Resource[T]) Remove(ctx context.Context, id any) ([]T, error) {
	return r.request(ctx, http.MethodDelete, idSegment(id), nil)
}

func (r *Resource[T]) request(ctx context.Context, method, endpoint string, payload any) (data []T, err error) {
	r.begin()
	defer r.finish()

	path := r.path
	if endpoint != "" {
		path += "/" + endpoint
	}

	defer func() {
		if err != nil {
			r.fail(err)
			r.logger.WithError(err).WithFields(logrus.Fields{
				"method":   method,
				"resource": path,
			}).Warn("resource request failed")
		}
	}()

	resp, err := r.client.Do(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}

	data, err = Coerce[T](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	r.store(data)
	out := make([]T, len(data))
	copy(out, data)
	return out, nil
}

func (r *Resource[T]) begin() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Loading = true
	r.state.Err = nil
}

func (r *Resource[T]) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Loading = false
}

func (r *Resource[T]) store(data []T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Data = data
}

func (r *Resource[T]) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Err = err
}

func idSegment(id any) string {
	return url.PathEscape(fmt.Sprint(id))
}
