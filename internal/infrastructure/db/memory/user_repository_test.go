package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carrental/admin-api/internal/core/domain"
	"github.com/carrental/admin-api/internal/core/ports"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.User{Email: "a@b.com", Name: "A", Role: domain.RoleUser, Active: true})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	byEmail, err := repo.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", byID.Email)

	_, err = repo.FindByEmail(ctx, "missing@b.com")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_UniqueEmailUnderConcurrency(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, &domain.User{Email: "race@b.com"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch err {
		case nil:
			ok++
		case domain.ErrDuplicateEmail:
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, attempts-1, dup)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestUserRepository_ListNewestFirst(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, email := range []string{"first@b.com", "second@b.com", "third@b.com"} {
		_, err := repo.Create(ctx, &domain.User{Email: email, CreatedAt: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}

	page, err := repo.List(ctx, ports.ListUsersFilter{Offset: 0, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "third@b.com", page[0].Email)
	require.Equal(t, "second@b.com", page[1].Email)

	rest, err := repo.List(ctx, ports.ListUsersFilter{Offset: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.Equal(t, "first@b.com", rest[0].Email)

	empty, err := repo.List(ctx, ports.ListUsersFilter{Offset: 10, Limit: 2})
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestUserRepository_SetActive(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.User{Email: "a@b.com", Active: true})
	require.NoError(t, err)

	updated, err := repo.SetActive(ctx, created.ID, false)
	require.NoError(t, err)
	require.False(t, updated.Active)

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, stored.Active)

	_, err = repo.SetActive(ctx, "nope", true)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
