package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/carrental/admin-api/internal/core/domain"
	"github.com/carrental/admin-api/internal/core/ports"
	"github.com/carrental/admin-api/internal/pkg/metrics"
)

// accountWriter creates credential records. Self-registration and the
// admin create route both go through it.
type accountWriter struct {
	repo    ports.CredentialStore
	hasher  ports.PasswordHasher
	timeout time.Duration
	now     func() time.Time
	log     zerolog.Logger
}

type newAccount struct {
	Email    string
	Password string
	Name     string
	Role     domain.Role
}

func (w accountWriter) create(ctx context.Context, in newAccount) (*domain.User, error) {
	email := domain.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || in.Password == "" || name == "" {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.NewValidationError("Email, password, and name are required")
	}
	if len(in.Password) > maxPasswordBytes {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.NewValidationError("Password must be at most 72 bytes")
	}

	// Advisory only: the store's unique constraint decides races.
	if _, err := w.findByEmail(ctx, email); err == nil {
		metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		w.log.Error().Err(err).Str("email", email).Msg("register lookup failed")
		return nil, err
	}

	start := time.Now()
	hash, err := w.hasher.Hash(in.Password)
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := w.now().UTC()
	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         in.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	storeCtx, cancel := context.WithTimeout(ctx, w.timeout)
	created, err := w.repo.Create(storeCtx, user)
	cancel()
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return nil, domain.ErrDuplicateEmail
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		w.log.Error().Err(err).Str("email", email).Msg("create user failed")
		return nil, storeError("create user", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return created, nil
}

func (w accountWriter) findByEmail(ctx context.Context, email string) (*domain.User, error) {
	storeCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	user, err := w.repo.FindByEmail(storeCtx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storeError("find user by email", err)
	}
	return user, nil
}
