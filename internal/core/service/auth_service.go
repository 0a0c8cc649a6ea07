package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/carrental/admin-api/internal/core/domain"
	"github.com/carrental/admin-api/internal/core/ports"
	"github.com/carrental/admin-api/internal/pkg/metrics"
)

const (
	defaultStoreTimeout = 5 * time.Second
	maxPasswordBytes    = 72
	timingPadPassword   = "timing-pad-password"
)

// AuthService implements login, registration and session verification.
//
// Policy, applied on every path:
//   - emails are normalized (trim + lowercase) before any store access;
//   - unknown email and wrong password produce the same ErrInvalidCredentials;
//   - the active flag is checked only after the password matched, so a
//     disabled account is not revealed to someone without its password;
//   - registration does not sign the user in.
type AuthService struct {
	repo          ports.CredentialStore
	hasher        ports.PasswordHasher
	tokens        ports.TokenService
	limiter       ports.LoginLimiter
	auditor       ports.Auditor
	accounts      accountWriter
	registerRoles map[domain.Role]struct{}
	storeTimeout  time.Duration
	now           func() time.Time
	log           zerolog.Logger

	// padHash is compared against when the email is unknown.
	padHash string
}

type AuthOption func(*AuthService)

// WithLoginLimiter throttles failed logins per account.
func WithLoginLimiter(l ports.LoginLimiter) AuthOption {
	return func(s *AuthService) { s.limiter = l }
}

// WithAuditor sends account events to the audit trail.
func WithAuditor(a ports.Auditor) AuthOption {
	return func(s *AuthService) { s.auditor = a }
}

// WithRegisterRoles narrows the roles self-registration may pick. Any other
// requested role falls back to domain.DefaultRole. Without this option every
// known role is accepted.
func WithRegisterRoles(roles ...domain.Role) AuthOption {
	return func(s *AuthService) {
		s.registerRoles = make(map[domain.Role]struct{}, len(roles))
		for _, r := range roles {
			s.registerRoles[r] = struct{}{}
		}
	}
}

// WithStoreTimeout bounds every credential store call.
func WithStoreTimeout(d time.Duration) AuthOption {
	return func(s *AuthService) {
		if d > 0 {
			s.storeTimeout = d
		}
	}
}

func NewAuthService(repo ports.CredentialStore, hasher ports.PasswordHasher, tokens ports.TokenService, log zerolog.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		repo:         repo,
		hasher:       hasher,
		tokens:       tokens,
		storeTimeout: defaultStoreTimeout,
		now:          time.Now,
		log:          log,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.accounts = accountWriter{repo: repo, hasher: hasher, timeout: s.storeTimeout, now: s.now, log: log}

	if h, err := hasher.Hash(timingPadPassword); err != nil {
		log.Warn().Err(err).Msg("failed to build timing pad hash")
	} else {
		s.padHash = h
	}
	return s
}

func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.Session, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.NewValidationError("Email and password are required")
	}

	if err := s.allowLogin(ctx, email); err != nil {
		metrics.LoginsTotal.WithLabelValues("rate_limited").Inc()
		return nil, err
	}

	user, err := s.findByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		// Burn the same bcrypt cost as a real comparison.
		s.hasher.Verify(in.Password, s.padHash)
		s.loginFailed(email, "", "unknown_email", in.RemoteIP)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("email", email).Msg("login lookup failed")
		return nil, err
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.loginFailed(email, user.ID, "wrong_password", in.RemoteIP)
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Active {
		metrics.LoginsTotal.WithLabelValues("disabled").Inc()
		s.record(domain.AuthEvent{Type: domain.EventLoginFailed, UserID: user.ID, Email: email, Reason: "disabled", RemoteIP: in.RemoteIP})
		return nil, domain.ErrAccountDisabled
	}

	token, err := s.tokens.Issue(domain.ClaimsFor(user))
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("token issuance failed")
		return nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("failed to reset login attempts")
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.record(domain.AuthEvent{Type: domain.EventLoginSucceeded, UserID: user.ID, Email: email, RemoteIP: in.RemoteIP})
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login succeeded")

	return &ports.Session{Token: token, User: user.Projection()}, nil
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	created, err := s.accounts.create(ctx, newAccount{
		Email:    in.Email,
		Password: in.Password,
		Name:     in.Name,
		Role:     s.registerRole(in.Role),
	})
	if err != nil {
		return nil, err
	}

	s.record(domain.AuthEvent{Type: domain.EventRegistered, UserID: created.ID, Email: created.Email, RemoteIP: in.RemoteIP})
	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")

	return created.Projection(), nil
}

func (s *AuthService) registerRole(requested string) domain.Role {
	role := domain.ResolveRole(requested)
	if s.registerRoles == nil {
		return role
	}
	if _, ok := s.registerRoles[role]; !ok {
		return domain.DefaultRole
	}
	return role
}

// VerifySession checks token and re-reads the account it names, so a
// disabled or deleted account stops working before the token expires.
func (s *AuthService) VerifySession(ctx context.Context, token string) (*domain.User, error) {
	user, err := s.liveUser(ctx, token)
	if err != nil {
		return nil, err
	}
	metrics.SessionChecksTotal.WithLabelValues("valid").Inc()
	return user.Projection(), nil
}

// Refresh swaps a valid token for a new one with fresh time claims.
func (s *AuthService) Refresh(ctx context.Context, token string) (*ports.Session, error) {
	user, err := s.liveUser(ctx, token)
	if err != nil {
		return nil, err
	}

	refreshed, err := s.tokens.Refresh(token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			metrics.SessionChecksTotal.WithLabelValues("invalid").Inc()
		}
		return nil, err
	}

	metrics.SessionChecksTotal.WithLabelValues("valid").Inc()
	s.record(domain.AuthEvent{Type: domain.EventTokenRefreshed, UserID: user.ID, Email: user.Email})
	return &ports.Session{Token: refreshed, User: user.Projection()}, nil
}

// Logout records the event for a still-valid token. The cookie itself is
// cleared by the transport; there is no server-side revocation.
func (s *AuthService) Logout(_ context.Context, token string) {
	if token == "" {
		return
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return
	}
	s.record(domain.AuthEvent{Type: domain.EventLoggedOut, UserID: claims.UserID, Email: claims.Email})
}

func (s *AuthService) liveUser(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		metrics.SessionChecksTotal.WithLabelValues("no_token").Inc()
		return nil, domain.ErrNoToken
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		metrics.SessionChecksTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidToken
	}
	return s.ActiveAccount(ctx, claims.UserID)
}

// ActiveAccount re-reads the account behind a verified session. A missing
// or disabled account is ErrInvalidToken, whatever the token still claims.
func (s *AuthService) ActiveAccount(ctx context.Context, userID string) (*domain.User, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	user, err := s.repo.FindByID(storeCtx, userID)
	cancel()
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.SessionChecksTotal.WithLabelValues("invalid").Inc()
			return nil, domain.ErrInvalidToken
		}
		metrics.SessionChecksTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("user_id", userID).Msg("session lookup failed")
		return nil, storeError("find user", err)
	}
	if !user.Active {
		metrics.SessionChecksTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.accounts.findByEmail(ctx, email)
}

func (s *AuthService) allowLogin(ctx context.Context, email string) error {
	if s.limiter == nil {
		return nil
	}
	err := s.limiter.Reserve(ctx, email)
	if err == nil || errors.Is(err, domain.ErrTooManyAttempts) {
		return err
	}
	// Limiter outage must not lock everyone out.
	s.log.Warn().Err(err).Str("email", email).Msg("login limiter unavailable")
	return nil
}

func (s *AuthService) loginFailed(email, userID, reason, remoteIP string) {
	metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
	s.record(domain.AuthEvent{Type: domain.EventLoginFailed, UserID: userID, Email: email, Reason: reason, RemoteIP: remoteIP})
}

func (s *AuthService) record(event domain.AuthEvent) {
	if s.auditor == nil {
		return
	}
	event.OccurredAt = s.now().UTC()
	s.auditor.Record(event)
}

// storeError classifies a failed store call. Timeouts and driver errors
// both surface as ErrStoreUnavailable; the cause stays in the chain for logs.
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
