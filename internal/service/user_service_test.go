package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeoff-login/internal/repository/sqlite"
	"timeoff-login/internal/service"
	"timeoff-login/internal/validation"
)

func newService(t *testing.T) service.UserService {
	t.Helper()

	db, err := sqlite.Open(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewUserRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	return service.NewUserService(repo)
}

func TestUserServiceCRUD(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	created, err := svc.Create(ctx, "ana", "senha1")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = svc.Create(ctx, "ana", "senha9")
	assert.ErrorIs(t, err, service.ErrUserAlreadyExists)

	replaced, err := svc.Replace(ctx, created.ID, "ana", "novasenha")
	require.NoError(t, err)
	assert.Equal(t, "novasenha", replaced.Password)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, service.ErrUserNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), service.ErrUserNotFound)
	_, err = svc.Replace(ctx, created.ID, "ana", "senha1")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUserServiceValidates(t *testing.T) {
	svc := newService(t)

	_, err := svc.Create(context.Background(), "", "senha1")
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, validation.MsgUsernameRequired, verr.Message)

	_, err = svc.Create(context.Background(), "ana", "123")
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, validation.MsgPasswordTooShort, verr.Message)
}

func TestUserServiceEnsureSeed(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	created, err := svc.EnsureSeed(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = svc.EnsureSeed(ctx, "ana", "senha1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureSeed(ctx, "ana", "senha1")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = svc.EnsureSeed(ctx, "bia", "x")
	assert.Error(t, err)
}
