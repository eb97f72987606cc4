package service

import (
	"context"
	"errors"
	"fmt"

	"timeoff-login/internal/domain"
	"timeoff-login/internal/repository"
	"timeoff-login/internal/validation"
)

var (
	// ErrUserNotFound indicates no record exists for the requested id.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists is returned when the username is already taken.
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserService describes the operations the usuario collection supports.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, username, password string) (*domain.User, error)
	Replace(ctx context.Context, id int64, username, password string) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	// EnsureSeed creates the user unless a record with that username exists.
	EnsureSeed(ctx context.Context, username, password string) (bool, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *userService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, username, password string) (*domain.User, error) {
	if err := (validation.Credentials{Username: username, Password: password}).Validate(); err != nil {
		return nil, err
	}

	user := &domain.User{Username: username, Password: password}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, translate(err)
	}
	return user, nil
}

func (s *userService) Replace(ctx context.Context, id int64, username, password string) (*domain.User, error) {
	if err := (validation.Credentials{Username: username, Password: password}).Validate(); err != nil {
		return nil, err
	}

	user := &domain.User{ID: id, Username: username, Password: password}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, translate(err)
	}
	return s.Get(ctx, id)
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	return translate(s.users.Delete(ctx, id))
}

func (s *userService) EnsureSeed(ctx context.Context, username, password string) (bool, error) {
	if username == "" {
		return false, nil
	}
	if _, err := s.Create(ctx, username, password); err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			return false, nil
		}
		return false, fmt.Errorf("seed user: %w", err)
	}
	return true, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrAlreadyExists):
		return ErrUserAlreadyExists
	default:
		return err
	}
}
