package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/syedukkashah/university-library/internal/core/domain"
	"github.com/syedukkashah/university-library/internal/core/port"
	"github.com/syedukkashah/university-library/internal/infra/logger"
	"github.com/syedukkashah/university-library/internal/infra/security"
	"github.com/syedukkashah/university-library/internal/repository"
)

// Admission result error strings are part of the client contract and
// must not be reworded.
const (
	ErrTextRateLimited      = "RATE_LIMITED"
	ErrTextRateLimitService = "RATE_LIMIT_SERVICE_ERROR"
	ErrTextInvalidCreds     = "Invalid credentials"
	ErrTextUserExists       = "User already exists"
	ErrTextSignInFault      = "Signin error"
	ErrTextSignUpFault      = "Signup error"
)

// AuthResult is the outcome of a sign-in or sign-up attempt. Faults are
// reported as data rather than as Go errors so transport code can map
// them to responses without inspecting error chains.
type AuthResult struct {
	Success     bool
	Error       string
	RateLimited bool
	Token       string
}

// SignUpInput carries the fields collected by the registration form.
type SignUpInput struct {
	FullName          string
	Email             string
	UniversityID      int64
	Password          string
	UniversityCardKey string
}

// AdmissionService runs the credential workflows: throttled sign-in,
// registration with automatic sign-in, and the supporting side effects.
type AdmissionService struct {
	users     port.UserRepository
	limiter   port.RateLimiter
	sessions  *SessionService
	validator *security.PasswordValidator
	events    port.EventPublisher
	notifier  port.NotificationDispatcher
	logger    *zap.Logger
	now       func() time.Time
}

// NewAdmissionService constructs an AdmissionService.
func NewAdmissionService(
	users port.UserRepository,
	limiter port.RateLimiter,
	sessions *SessionService,
	validator *security.PasswordValidator,
	events port.EventPublisher,
	notifier port.NotificationDispatcher,
	log *zap.Logger,
) *AdmissionService {
	if log == nil {
		log = zap.NewNop()
	}
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	return &AdmissionService{
		users:     users,
		limiter:   limiter,
		sessions:  sessions,
		validator: validator,
		events:    events,
		notifier:  notifier,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the internal clock for deterministic tests.
func (s *AdmissionService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// checkRateLimit consumes one slot from the caller's window. A counter
// store failure denies the request: an unreachable limiter must not turn
// into an unthrottled endpoint.
func (s *AdmissionService) checkRateLimit(ctx context.Context, clientKey string) *AuthResult {
	result, err := s.limiter.Limit(ctx, clientKey)
	if err != nil {
		s.logger.Error("Rate limit check failed",
			zap.String("client_key", logger.MaskIP(clientKey)),
			zap.Error(err),
		)
		return &AuthResult{Error: ErrTextRateLimitService, RateLimited: true}
	}

	if !result.Allowed {
		s.logger.Warn("Admission attempt rate limited",
			zap.String("client_key", logger.MaskIP(clientKey)),
			zap.Int64("reset_at", result.ResetAt),
		)
		return &AuthResult{Error: ErrTextRateLimited, RateLimited: true}
	}

	return nil
}

// SignIn verifies credentials for an existing account and issues a
// session token. Every attempt consumes a rate-limit slot before the
// credentials are examined, so repeated failures and repeated successes
// exhaust the window equally.
func (s *AdmissionService) SignIn(ctx context.Context, email, password, clientKey string) AuthResult {
	return s.signIn(ctx, email, password, clientKey, false)
}

func (s *AdmissionService) signIn(ctx context.Context, email, password, clientKey string, skipRateLimit bool) AuthResult {
	if !skipRateLimit {
		if denied := s.checkRateLimit(ctx, clientKey); denied != nil {
			return *denied
		}
	}

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AuthResult{Error: ErrTextInvalidCreds}
		}
		s.logger.Error("Sign-in user lookup failed",
			zap.String("email", logger.MaskEmail(email)),
			zap.Error(err),
		)
		return AuthResult{Error: ErrTextSignInFault}
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("Sign-in password verification failed",
			zap.String("email", logger.MaskEmail(email)),
			zap.Error(err),
		)
		return AuthResult{Error: ErrTextSignInFault}
	}
	if !ok {
		return AuthResult{Error: ErrTextInvalidCreds}
	}

	token, err := s.sessions.Issue(domain.Identity{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
	})
	if err != nil {
		s.logger.Error("Session issue failed",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		return AuthResult{Error: ErrTextSignInFault}
	}

	if err := s.users.UpdateLastActivity(ctx, user.ID, s.now()); err != nil {
		s.logger.Warn("Last activity update failed",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
	}

	return AuthResult{Success: true, Token: token}
}

// SignUp registers a new account and signs it in. The freshly created
// account starts PENDING and stays unable to borrow until an
// administrator approves it, but the session is issued immediately.
func (s *AdmissionService) SignUp(ctx context.Context, input SignUpInput, clientKey string) AuthResult {
	if denied := s.checkRateLimit(ctx, clientKey); denied != nil {
		return *denied
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	if err := s.validator.Validate(input.Password); err != nil {
		return AuthResult{Error: err.Error()}
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return AuthResult{Error: ErrTextUserExists}
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("Sign-up duplicate check failed",
			zap.String("email", logger.MaskEmail(email)),
			zap.Error(err),
		)
		return AuthResult{Error: ErrTextSignUpFault}
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		s.logger.Error("Password hashing failed", zap.Error(err))
		return AuthResult{Error: ErrTextSignUpFault}
	}

	now := s.now()
	user := domain.User{
		ID:               uuid.NewString(),
		FullName:         strings.TrimSpace(input.FullName),
		Email:            email,
		PasswordHash:     hash,
		UniversityID:     input.UniversityID,
		UniversityCard:   input.UniversityCardKey,
		Role:             domain.RoleUser,
		Status:           domain.StatusPending,
		LastActivityDate: now,
		CreatedAt:        now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// The pre-check above races with concurrent sign-ups; the
		// unique constraint is what actually decides.
		if errors.Is(err, repository.ErrDuplicate) {
			return AuthResult{Error: ErrTextUserExists}
		}
		s.logger.Error("User creation failed",
			zap.String("email", logger.MaskEmail(email)),
			zap.Error(err),
		)
		return AuthResult{Error: ErrTextSignUpFault}
	}

	if s.events != nil {
		event := domain.UserRegisteredEvent{
			EventID:      uuid.NewString(),
			UserID:       user.ID,
			FullName:     user.FullName,
			Email:        user.Email,
			UniversityID: user.UniversityID,
			Status:       string(user.Status),
			RegisteredAt: now,
		}
		if err := s.events.PublishUserRegistered(ctx, event); err != nil {
			s.logger.Warn("User registered event publish failed",
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	if s.notifier != nil {
		if err := s.notifier.SendWelcome(ctx, user.Email, user.FullName); err != nil {
			s.logger.Warn("Welcome notification failed",
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	// The registration attempt already consumed a window slot, so the
	// automatic sign-in bypasses the limiter.
	return s.signIn(ctx, email, input.Password, clientKey, true)
}
