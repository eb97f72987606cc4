// Package login drives the login screen: it loads the user collection once,
// validates the credentials form and matches it against the loaded records.
//
// Matching is a plaintext, case-sensitive comparison done on the client
// against whatever the backend returned. Nothing here authenticates against
// a server.
package login

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"timeoff-login/internal/domain"
	"timeoff-login/internal/resource"
	"timeoff-login/internal/session"
	"timeoff-login/internal/validation"
)

const (
	Title          = "TimeOff"
	RoutePrincipal = "/principal"
	AlertTitle     = "Erro"

	MsgLoadFailed   = "Erro ao carregar usuários"
	MsgLoginFailure = "Ocorreu um erro durante o login"
)

var (
	// ErrNoUsers is raised when the loaded collection is empty.
	ErrNoUsers = errors.New("Nenhum usuário cadastrado")
	// ErrInvalidCredentials is raised when no loaded record matches.
	ErrInvalidCredentials = errors.New("Usuário ou senha incorretos")
	// ErrBusy is returned when a submit arrives while another one is running.
	ErrBusy = errors.New("login already in progress")
)

// UserSource is the user collection as seen by the screen.
type UserSource interface {
	GetAll(ctx context.Context) ([]domain.User, error)
	State() resource.State[domain.User]
}

// Authenticator receives the matched record.
type Authenticator interface {
	Login(ctx context.Context, user domain.User) (session.Session, error)
}

// Navigator performs forward transitions between named routes.
type Navigator interface {
	Push(route string)
}

// Alerter shows a blocking dialog.
type Alerter interface {
	Alert(title, message string)
}

type Deps struct {
	Users     UserSource
	Auth      Authenticator
	Navigator Navigator
	Alerter   Alerter
	Logger    *logrus.Logger
}

type Status int

const (
	StatusIdle Status = iota
	StatusValidating
	StatusAuthenticating
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusValidating:
		return "validating"
	case StatusAuthenticating:
		return "authenticating"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Result describes how a single submit ended. Status is the terminal state
// reached before the screen went back to idle.
type Result struct {
	Status          Status
	ValidationError string
	Err             error
	User            *domain.User
	Session         *session.Session
}

// View is everything the presentation layer needs to render the screen.
type View struct {
	Title           string
	ValidationError string
	LoadError       string
	InputsEnabled   bool
	SubmitEnabled   bool
	Busy            bool
}

type Screen struct {
	deps Deps

	mountOnce sync.Once
	mounted   chan struct{}

	mu              sync.Mutex
	status          Status
	inFlight        bool
	validationError string
}

func NewScreen(deps Deps) *Screen {
	if deps.Logger == nil {
		deps.Logger = logrus.New()
	}
	return &Screen{
		deps:    deps,
		mounted: make(chan struct{}),
	}
}

// Mount starts loading the user collection and returns without waiting.
// Only the first call has an effect.
func (s *Screen) Mount(ctx context.Context) {
	s.mountOnce.Do(func() {
		go func() {
			defer close(s.mounted)
			users, err := s.deps.Users.GetAll(ctx)
			if err != nil {
				s.deps.Logger.WithError(err).Error("load users")
				return
			}
			s.deps.Logger.Debugf("loaded %d users", len(users))
		}()
	})
}

// Loaded is closed once the load started by Mount has finished.
func (s *Screen) Loaded() <-chan struct{} {
	return s.mounted
}

// Status returns the current state of the screen.
func (s *Screen) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Screen) View() View {
	state := s.deps.Users.State()

	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Title:           Title,
		ValidationError: s.validationError,
		InputsEnabled:   !s.inFlight,
		SubmitEnabled:   !state.Loading && !s.inFlight,
		Busy:            s.inFlight,
	}
	if state.Err != nil {
		v.LoadError = state.Err.Error()
		if v.LoadError == "" {
			v.LoadError = MsgLoadFailed
		}
	}
	return v
}

// Submit runs one login attempt with the form values.
func (s *Screen) Submit(ctx context.Context, username, password string) Result {
	if !s.begin() {
		return Result{Status: StatusFailure, Err: ErrBusy}
	}
	defer s.end()

	creds := validation.Credentials{Username: username, Password: password}
	if err := creds.Validate(); err != nil {
		msg := err.Error()
		var verr *validation.Error
		if errors.As(err, &verr) {
			msg = verr.Message
		}
		s.setValidationError(msg)
		return Result{Status: StatusFailure, ValidationError: msg, Err: err}
	}
	s.setValidationError("")

	s.setStatus(StatusAuthenticating)
	users := s.deps.Users.State().Data
	if len(users) == 0 {
		return s.reject(ErrNoUsers)
	}

	match, ok := findUser(users, creds.Username, creds.Password)
	if !ok {
		return s.reject(ErrInvalidCredentials)
	}

	sess, err := s.deps.Auth.Login(ctx, match)
	if err != nil {
		return s.reject(err)
	}
	s.deps.Navigator.Push(RoutePrincipal)

	s.setStatus(StatusSuccess)
	s.deps.Logger.WithField("usunom", match.Username).Info("login succeeded")
	return Result{Status: StatusSuccess, User: &match, Session: &sess}
}

func (s *Screen) reject(err error) Result {
	msg := err.Error()
	if msg == "" {
		msg = MsgLoginFailure
	}
	s.deps.Alerter.Alert(AlertTitle, msg)
	s.setStatus(StatusFailure)
	s.deps.Logger.WithError(err).Info("login rejected")
	return Result{Status: StatusFailure, Err: err}
}

// findUser returns the first record, in list order, matching both fields.
func findUser(users []domain.User, username, password string) (domain.User, bool) {
	for _, u := range users {
		if u.Matches(username, password) {
			return u, true
		}
	}
	return domain.User{}, false
}

func (s *Screen) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return false
	}
	s.inFlight = true
	s.status = StatusValidating
	return true
}

func (s *Screen) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	s.status = StatusIdle
}

func (s *Screen) setStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

func (s *Screen) setValidationError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validationError = msg
}
