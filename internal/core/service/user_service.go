package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/carrental/admin-api/internal/core/domain"
	"github.com/carrental/admin-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// UserService lists, creates and enables or disables accounts for administrators.
type UserService struct {
	repo     ports.CredentialStore
	accounts accountWriter
	auditor  ports.Auditor
	timeout  time.Duration
	log      zerolog.Logger
}

func NewUserService(repo ports.CredentialStore, hasher ports.PasswordHasher, auditor ports.Auditor, timeout time.Duration, log zerolog.Logger) *UserService {
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return &UserService{
		repo:     repo,
		accounts: accountWriter{repo: repo, hasher: hasher, timeout: timeout, now: time.Now, log: log},
		auditor:  auditor,
		timeout:  timeout,
		log:      log,
	}
}

func (s *UserService) List(ctx context.Context, in ports.ListUsersInput) (*ports.UserPage, error) {
	page, limit := in.Page, in.Limit
	if page < 1 {
		page = 1
	}
	switch {
	case limit <= 0:
		limit = defaultPageLimit
	case limit > maxPageLimit:
		limit = maxPageLimit
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, storeError("count users", err)
	}
	users, err := s.repo.List(ctx, ports.ListUsersFilter{Offset: (page - 1) * limit, Limit: limit})
	if err != nil {
		return nil, storeError("list users", err)
	}

	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Projection())
	}

	return &ports.UserPage{
		Users:      out,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// Create adds an active account with an explicit role. Unlike
// self-registration an unknown role is rejected rather than defaulted.
func (s *UserService) Create(ctx context.Context, actorID string, in ports.CreateUserInput) (*domain.User, error) {
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		return nil, domain.NewValidationError("Role must be one of " + domain.RoleNames())
	}

	created, err := s.accounts.create(ctx, newAccount{Email: in.Email, Password: in.Password, Name: in.Name, Role: role})
	if err != nil {
		return nil, err
	}

	if s.auditor != nil {
		s.auditor.Record(domain.AuthEvent{
			Type:       domain.EventUserCreated,
			UserID:     created.ID,
			Email:      created.Email,
			ActorID:    actorID,
			Reason:     string(created.Role),
			OccurredAt: time.Now().UTC(),
		})
	}
	s.log.Info().Str("user_id", created.ID).Str("actor_id", actorID).Str("role", string(created.Role)).Msg("user created by admin")

	return created.Projection(), nil
}

// SetActive enables or disables userID. An actor cannot disable itself.
func (s *UserService) SetActive(ctx context.Context, actorID, userID string, active bool) (*domain.User, error) {
	if userID == "" {
		return nil, domain.NewValidationError("User id is required")
	}
	if actorID == userID && !active {
		return nil, domain.NewValidationError("You cannot deactivate your own account")
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	user, err := s.repo.SetActive(storeCtx, userID, active)
	cancel()
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storeError("set active", err)
	}

	reason := "disabled"
	if active {
		reason = "enabled"
	}
	if s.auditor != nil {
		s.auditor.Record(domain.AuthEvent{
			Type:       domain.EventActiveChanged,
			UserID:     user.ID,
			Email:      user.Email,
			ActorID:    actorID,
			Reason:     reason,
			OccurredAt: time.Now().UTC(),
		})
	}
	s.log.Info().Str("user_id", user.ID).Str("actor_id", actorID).Bool("active", active).Msg("account active flag changed")

	return user.Projection(), nil
}
