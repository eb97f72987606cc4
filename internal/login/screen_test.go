package login_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeoff-login/internal/apiclient"
	"timeoff-login/internal/domain"
	"timeoff-login/internal/login"
	"timeoff-login/internal/resource"
	"timeoff-login/internal/session"
	"timeoff-login/internal/validation"
)

type stubDoer struct {
	mu    sync.Mutex
	calls int
	body  string
	err   error
	gate  chan struct{}
}

func (d *stubDoer) Do(_ context.Context, _, _ string, _ any) (*apiclient.Response, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	if d.gate != nil {
		<-d.gate
	}
	if d.err != nil {
		return nil, d.err
	}
	return &apiclient.Response{StatusCode: http.StatusOK, Body: []byte(d.body)}, nil
}

func (d *stubDoer) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

type recorder struct {
	mu     sync.Mutex
	routes []string
	alerts []string
}

func (r *recorder) Push(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

func (r *recorder) Alert(_, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, message)
}

type fixture struct {
	doer   *stubDoer
	users  *resource.Resource[domain.User]
	auth   *session.Context
	ui     *recorder
	screen *login.Screen
}

func newFixture(t *testing.T, body string) *fixture {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	doer := &stubDoer{body: body}
	users := resource.New[domain.User](doer, "usuario", logger)
	auth := session.NewContext()
	ui := &recorder{}

	return &fixture{
		doer:  doer,
		users: users,
		auth:  auth,
		ui:    ui,
		screen: login.NewScreen(login.Deps{
			Users:     users,
			Auth:      auth,
			Navigator: ui,
			Alerter:   ui,
			Logger:    logger,
		}),
	}
}

func (f *fixture) mount(t *testing.T) {
	t.Helper()
	f.screen.Mount(context.Background())
	select {
	case <-f.screen.Loaded():
	case <-time.After(5 * time.Second):
		t.Fatal("user list did not load")
	}
}

func TestSubmitMatchNavigatesAndStoresUser(t *testing.T) {
	f := newFixture(t, `[{"usunom":"ana","ususen":"senha1"}]`)
	f.mount(t)

	res := f.screen.Submit(context.Background(), "ana", "senha1")

	require.NoError(t, res.Err)
	assert.Equal(t, login.StatusSuccess, res.Status)
	assert.Equal(t, []string{login.RoutePrincipal}, f.ui.routes)
	assert.Empty(t, f.ui.alerts)

	user, ok := f.auth.User()
	require.True(t, ok)
	assert.Equal(t, domain.User{Username: "ana", Password: "senha1"}, user)
	assert.Equal(t, login.StatusIdle, f.screen.Status())
}

func TestSubmitEmptyListAlerts(t *testing.T) {
	f := newFixture(t, `[]`)
	f.mount(t)

	res := f.screen.Submit(context.Background(), "ana", "senha1")

	assert.ErrorIs(t, res.Err, login.ErrNoUsers)
	assert.Equal(t, login.StatusFailure, res.Status)
	assert.Equal(t, []string{"Nenhum usuário cadastrado"}, f.ui.alerts)
	assert.Empty(t, f.ui.routes)
	_, ok := f.auth.User()
	assert.False(t, ok)
}

func TestSubmitBeforeLoadSeesEmptyList(t *testing.T) {
	f := newFixture(t, `[{"usunom":"ana","ususen":"senha1"}]`)
	f.doer.gate = make(chan struct{})
	f.screen.Mount(context.Background())

	res := f.screen.Submit(context.Background(), "ana", "senha1")
	assert.ErrorIs(t, res.Err, login.ErrNoUsers)

	close(f.doer.gate)
	<-f.screen.Loaded()

	res = f.screen.Submit(context.Background(), "ana", "senha1")
	assert.Equal(t, login.StatusSuccess, res.Status)
}

func TestSubmitValidationErrorsSkipMatching(t *testing.T) {
	testCases := []struct {
		name     string
		username string
		password string
		message  string
	}{
		{name: "missing username", username: "", password: "12345", message: "Nome é obrigatório"},
		{name: "short password", username: "ana", password: "abc", message: validation.MsgPasswordTooShort},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, `[{"usunom":"ana","ususen":"abc"}]`)
			f.mount(t)

			res := f.screen.Submit(context.Background(), tc.username, tc.password)

			assert.Equal(t, tc.message, res.ValidationError)
			assert.Equal(t, tc.message, f.screen.View().ValidationError)
			assert.Empty(t, f.ui.alerts)
			assert.Empty(t, f.ui.routes)
			assert.Equal(t, 1, f.doer.Calls())
			_, ok := f.auth.User()
			assert.False(t, ok)
		})
	}
}

func TestSubmitClearsValidationErrorOnValidInput(t *testing.T) {
	f := newFixture(t, `[{"usunom":"ana","ususen":"senha1"}]`)
	f.mount(t)

	f.screen.Submit(context.Background(), "", "")
	require.NotEmpty(t, f.screen.View().ValidationError)

	f.screen.Submit(context.Background(), "ana", "errada")
	assert.Empty(t, f.screen.View().ValidationError)
	assert.Equal(t, []string{"Usuário ou senha incorretos"}, f.ui.alerts)
}

func TestSubmitMatchingIsExact(t *testing.T) {
	list := `[
		{"id":1,"usunom":"ana","ususen":"senha1"},
		{"id":2,"usunom":"Bia","ususen":"senha2"},
		{"id":3,"usunom":"ana","ususen":"senha1"}
	]`

	testCases := []struct {
		name     string
		username string
		password string
		ok       bool
		id       int64
	}{
		{name: "first duplicate wins", username: "ana", password: "senha1", ok: true, id: 1},
		{name: "case sensitive username", username: "bia", password: "senha2", ok: false},
		{name: "case sensitive password", username: "Bia", password: "SENHA2", ok: false},
		{name: "exact match", username: "Bia", password: "senha2", ok: true, id: 2},
		{name: "no trimming", username: "ana ", password: "senha1", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, list)
			f.mount(t)

			res := f.screen.Submit(context.Background(), tc.username, tc.password)
			if !tc.ok {
				assert.ErrorIs(t, res.Err, login.ErrInvalidCredentials)
				assert.Empty(t, f.ui.routes)
				return
			}
			require.NoError(t, res.Err)
			require.NotNil(t, res.User)
			assert.Equal(t, tc.id, res.User.ID)
			assert.Len(t, f.ui.routes, 1)
		})
	}
}

func TestMountLoadsOnce(t *testing.T) {
	f := newFixture(t, `[]`)
	f.mount(t)
	f.screen.Mount(context.Background())
	f.screen.Mount(context.Background())

	assert.Equal(t, 1, f.doer.Calls())
}

func TestViewReportsLoadError(t *testing.T) {
	f := newFixture(t, ``)
	f.doer.err = errors.New("dial tcp: connection refused")
	f.mount(t)

	view := f.screen.View()
	assert.Equal(t, login.Title, view.Title)
	assert.Equal(t, "dial tcp: connection refused", view.LoadError)
	assert.True(t, view.SubmitEnabled)
	assert.True(t, view.InputsEnabled)

	res := f.screen.Submit(context.Background(), "ana", "senha1")
	assert.ErrorIs(t, res.Err, login.ErrNoUsers)
}

func TestViewDisablesSubmitWhileLoading(t *testing.T) {
	f := newFixture(t, `[]`)
	f.doer.gate = make(chan struct{})
	f.screen.Mount(context.Background())

	require.Eventually(t, func() bool { return f.doer.Calls() == 1 }, 5*time.Second, 5*time.Millisecond)
	assert.False(t, f.screen.View().SubmitEnabled)

	close(f.doer.gate)
	<-f.screen.Loaded()
	assert.True(t, f.screen.View().SubmitEnabled)
}

type blockingAuth struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingAuth) Login(_ context.Context, user domain.User) (session.Session, error) {
	close(b.entered)
	<-b.release
	return session.Session{User: user}, nil
}

func TestSubmitInFlightDisablesForm(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	doer := &stubDoer{body: `[{"usunom":"ana","ususen":"senha1"}]`}
	users := resource.New[domain.User](doer, "usuario", logger)
	_, err := users.GetAll(context.Background())
	require.NoError(t, err)

	auth := &blockingAuth{entered: make(chan struct{}), release: make(chan struct{})}
	ui := &recorder{}
	screen := login.NewScreen(login.Deps{Users: users, Auth: auth, Navigator: ui, Alerter: ui, Logger: logger})

	done := make(chan login.Result, 1)
	go func() { done <- screen.Submit(context.Background(), "ana", "senha1") }()

	<-auth.entered
	view := screen.View()
	assert.True(t, view.Busy)
	assert.False(t, view.InputsEnabled)
	assert.False(t, view.SubmitEnabled)
	assert.Equal(t, login.StatusAuthenticating, screen.Status())

	busy := screen.Submit(context.Background(), "ana", "senha1")
	assert.ErrorIs(t, busy.Err, login.ErrBusy)

	close(auth.release)
	res := <-done
	assert.Equal(t, login.StatusSuccess, res.Status)

	view = screen.View()
	assert.False(t, view.Busy)
	assert.True(t, view.InputsEnabled)
	assert.Equal(t, login.StatusIdle, screen.Status())
}

type failingAuth struct{}

func (failingAuth) Login(context.Context, domain.User) (session.Session, error) {
	return session.Session{}, errors.New("")
}

func TestSubmitAuthFailureAlertsGenericMessage(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	doer := &stubDoer{body: `[{"usunom":"ana","ususen":"senha1"}]`}
	users := resource.New[domain.User](doer, "usuario", logger)
	_, err := users.GetAll(context.Background())
	require.NoError(t, err)

	ui := &recorder{}
	screen := login.NewScreen(login.Deps{Users: users, Auth: failingAuth{}, Navigator: ui, Alerter: ui, Logger: logger})

	res := screen.Submit(context.Background(), "ana", "senha1")
	assert.Equal(t, login.StatusFailure, res.Status)
	assert.Equal(t, []string{login.MsgLoginFailure}, ui.alerts)
	assert.Empty(t, ui.routes)
}
