package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/core/domain"
	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/core/port"
	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/infra/logger"
	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/infra/security"
	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the provided email or password are incorrect.
	// Unknown email and wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken indicates the email already belongs to an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrRoleNotFound indicates the requested role does not exist.
	ErrRoleNotFound = errors.New("role not found")
	// ErrUserNotFound indicates the user record no longer exists.
	ErrUserNotFound = errors.New("user not found")
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-()]{5,18}[0-9]$`)
)

// ValidationError reports a field-level problem with a request.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AuthService coordinates registration, login, and profile retrieval.
type AuthService struct {
	users             port.UserRepository
	roles             port.RoleRepository
	tokens            *security.TokenIssuer
	passwordValidator *security.PasswordValidator
	events            port.EventPublisher
	logger            *zap.Logger
	now               func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	users port.UserRepository,
	roles port.RoleRepository,
	tokens *security.TokenIssuer,
	validator *security.PasswordValidator,
	events port.EventPublisher,
	log *zap.Logger,
) *AuthService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:             users,
		roles:             roles,
		tokens:            tokens,
		passwordValidator: validator,
		events:            events,
		logger:            log,
		now:               time.Now,
	}
}

// WithClock overrides the service clock, for tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	if now != nil {
		s.now = now
	}
	return s
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Surname  string
	Phone    string
	RoleID   int
}

// Register creates a new account and returns an access token alongside the
// sanitized user. The token carries the user id only; role lands in tokens
// issued at login.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (string, domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return "", domain.User{}, &ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailPattern.MatchString(email) {
		return "", domain.User{}, &ValidationError{Field: "email", Message: "email is not valid"}
	}

	if err := s.passwordValidator.Validate(input.Password); err != nil {
		return "", domain.User{}, &ValidationError{Field: "password", Message: err.Error()}
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", domain.User{}, &ValidationError{Field: "name", Message: "name is required"}
	}
	surname := strings.TrimSpace(input.Surname)
	if surname == "" {
		return "", domain.User{}, &ValidationError{Field: "surname", Message: "surname is required"}
	}

	phone := strings.TrimSpace(input.Phone)
	if phone != "" && !phonePattern.MatchString(phone) {
		return "", domain.User{}, &ValidationError{Field: "phone", Message: "phone is not valid"}
	}

	if input.RoleID <= 0 {
		return "", domain.User{}, &ValidationError{Field: "roleId", Message: "roleId must be a positive integer"}
	}

	if _, err := s.roles.GetByID(ctx, input.RoleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", domain.User{}, ErrRoleNotFound
		}
		return "", domain.User{}, fmt.Errorf("lookup role: %w", err)
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return "", domain.User{}, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Surname:      surname,
		RoleID:       input.RoleID,
		Active:       true,
		RegisteredAt: now,
	}
	if phone != "" {
		user.Phone = &phone
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration can slip past the existence pre-check;
		// the unique index is the source of truth.
		if errors.Is(err, repository.ErrDuplicate) {
			return "", domain.User{}, ErrEmailTaken
		}
		return "", domain.User{}, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, "")
	if err != nil {
		return "", domain.User{}, fmt.Errorf("issue token: %w", err)
	}

	if s.events != nil {
		event := domain.UserRegisteredEvent{
			EventID:      uuid.NewString(),
			UserID:       user.ID,
			Email:        user.Email,
			RoleID:       user.RoleID,
			RegisteredAt: user.RegisteredAt,
		}
		if err := s.events.PublishUserRegistered(ctx, event); err != nil {
			s.logger.Warn("publish user registered event failed",
				zap.String("user_id", user.ID), zap.Error(err))
		}
	}

	registeredFields := []zap.Field{
		zap.String("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)),
		zap.Int("role_id", user.RoleID),
	}
	if user.Phone != nil {
		registeredFields = append(registeredFields, zap.String("phone", logger.MaskPhone(*user.Phone)))
	}
	s.logger.Info("user registered", registeredFields...)

	return token, user.Sanitized(), nil
}

// Login validates credentials against active accounts and issues an access
// token embedding the user's role.
func (s *AuthService) Login(ctx context.Context, email, password, ip string) (string, domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", domain.User{}, "", &ValidationError{Field: "email", Message: "email is required"}
	}
	if password == "" {
		return "", domain.User{}, "", &ValidationError{Field: "password", Message: "password is required"}
	}

	user, err := s.users.GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", domain.User{}, "", ErrInvalidCredentials
		}
		return "", domain.User{}, "", fmt.Errorf("lookup user: %w", err)
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", domain.User{}, "", fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return "", domain.User{}, "", ErrInvalidCredentials
	}

	roleName := ""
	if role, err := s.roles.GetByID(ctx, user.RoleID); err == nil {
		roleName = role.Name
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", domain.User{}, "", fmt.Errorf("lookup role: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, roleName)
	if err != nil {
		return "", domain.User{}, "", fmt.Errorf("issue token: %w", err)
	}

	now := s.now().UTC()
	// Best effort: a failed timestamp update must not fail the login.
	if err := s.users.TouchLastAccess(ctx, user.ID, now); err != nil {
		s.logger.Warn("touch last access failed",
			zap.String("user_id", user.ID), zap.Error(err))
	} else {
		user.LastAccessAt = &now
	}

	if s.events != nil {
		event := domain.UserLoggedInEvent{
			EventID:    uuid.NewString(),
			UserID:     user.ID,
			Email:      user.Email,
			Role:       roleName,
			IP:         ip,
			LoggedInAt: now,
		}
		if err := s.events.PublishUserLoggedIn(ctx, event); err != nil {
			s.logger.Warn("publish user logged in event failed",
				zap.String("user_id", user.ID), zap.Error(err))
		}
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)),
		zap.String("ip", logger.MaskIP(ip)),
	)

	return token, user.Sanitized(), roleName, nil
}

// Profile returns the sanitized account for the given user id.
func (s *AuthService) Profile(ctx context.Context, userID string) (domain.User, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.User{}, &ValidationError{Field: "userId", Message: "user id is required"}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	return user.Sanitized(), nil
}

// VerifyToken checks a signed access token and returns its claims.
func (s *AuthService) VerifyToken(token string) (*security.AccessTokenClaims, error) {
	return s.tokens.Verify(token)
}
