package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/contacts-api/internal/logging"
	"github.com/redmonkez12/contacts-api/internal/user"
)

var (
	ErrInvalidCredentials         = errors.New("invalid email or password")
	ErrEmailRequired              = errors.New("email is required")
	ErrPasswordRequired           = errors.New("password is required")
	ErrPasswordTooShort           = errors.New("password must be at least 8 characters")
	ErrInvalidEmailFormat         = errors.New("invalid email format")
	ErrEmailNotConfirmed          = errors.New("email not verified, please check your inbox")
	ErrEmailAlreadyConfirmed      = errors.New("email already verified")
	ErrPasswordResetTokenNotFound = errors.New("password reset token not found or expired")
)

// UserRepository defines the user persistence operations the service needs
type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string, firstName *string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	SaveRefreshToken(ctx context.Context, userID uuid.UUID, token string) error
	RevokeRefreshToken(ctx context.Context, userID uuid.UUID) error
	Confirm(ctx context.Context, email string) (*user.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

// EmailService defines the interface for email operations
type EmailService interface {
	SendVerificationEmail(ctx context.Context, toEmail, name, token string) error
	SendPasswordResetEmail(ctx context.Context, toEmail, token string) error
}

// PasswordResetStore defines the interface for password reset token storage
type PasswordResetStore interface {
	StorePasswordResetToken(ctx context.Context, userID uuid.UUID, token string) error
	GetPasswordResetToken(ctx context.Context, token string) (uuid.UUID, error)
	DeletePasswordResetToken(ctx context.Context, token string) error
}

// Service handles authentication business logic
type Service struct {
	users                UserRepository
	passwordResetStore   PasswordResetStore
	tokens               *TokenService
	emailService         EmailService
	logger               *logging.Logger
	accessTokenDuration  time.Duration
	refreshTokenDuration time.Duration
	verificationTokenTTL time.Duration
}

func NewService(
	users UserRepository,
	passwordResetStore PasswordResetStore,
	tokens *TokenService,
	emailService EmailService,
	logger *logging.Logger,
	accessTokenDuration time.Duration,
	refreshTokenDuration time.Duration,
	verificationTokenTTL time.Duration,
) *Service {
	return &Service{
		users:                users,
		passwordResetStore:   passwordResetStore,
		tokens:               tokens,
		emailService:         emailService,
		logger:               logger,
		accessTokenDuration:  accessTokenDuration,
		refreshTokenDuration: refreshTokenDuration,
		verificationTokenTTL: verificationTokenTTL,
	}
}

// Register creates a new unconfirmed user account and schedules the
// verification email. Registration succeeds even if the email later
// fails to send; the user can request a new one.
func (s *Service) Register(ctx context.Context, email, password string, firstName *string) (*user.User, error) {
	// Validate input
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(email) > 254 {
		return nil, ErrInvalidEmailFormat
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmailFormat
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if len(password) < 8 {
		return nil, ErrPasswordTooShort
	}

	// Hash password using argon2id
	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Create user in database
	newUser, err := s.users.Create(ctx, email, passwordHash, firstName)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Generate verification token
	verificationToken, err := s.tokens.CreateEmailVerificationToken(newUser.Email, s.verificationTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create verification token: %w", err)
	}

	s.sendVerificationEmailAsync(newUser, verificationToken)

	return newUser, nil
}

// Login authenticates a user and returns a fresh token pair.
// Unknown email and wrong password produce the same error so callers
// cannot enumerate accounts.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthTokens, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !VerifyPassword(existingUser.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	if !existingUser.IsConfirmed {
		return nil, ErrEmailNotConfirmed
	}

	tokens, err := s.generateTokens(ctx, existingUser)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return tokens, nil
}

// Refresh exchanges a valid refresh token for a brand-new pair.
// The presented token must match the user's stored slot; a rotated or
// superseded token fails here even if its signature is still valid.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	claims, err := s.tokens.DecodeRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	existingUser, err := s.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if existingUser.CurrentRefreshToken == nil ||
		subtle.ConstantTimeCompare([]byte(*existingUser.CurrentRefreshToken), []byte(refreshToken)) != 1 {
		return nil, ErrInvalidToken
	}

	// Rotation: persisting the new pair makes the presented token
	// permanently unusable
	tokens, err := s.generateTokens(ctx, existingUser)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return tokens, nil
}

// Logout clears the user's refresh token slot. Idempotent.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.RevokeRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// VerifyEmail confirms the account the token was issued for and returns
// the confirmed email. Re-verifying an already confirmed account is a
// no-op, not an error.
func (s *Service) VerifyEmail(ctx context.Context, token string) (string, error) {
	email, err := s.tokens.VerifyEmailToken(token)
	if err != nil {
		// Propagate expired vs invalid so handlers can phrase it
		return "", err
	}

	if _, err := s.users.Confirm(ctx, email); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", user.ErrNotFound
		}
		return "", fmt.Errorf("failed to confirm user: %w", err)
	}

	return email, nil
}

// ResendVerification sends a fresh verification token to an unconfirmed
// user. Unknown emails return nil so the endpoint cannot be used to
// probe for accounts.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil
		}
		s.logger.Warn("failed to get user for resend verification", "error", err)
		return nil
	}

	if existingUser.IsConfirmed {
		return ErrEmailAlreadyConfirmed
	}

	verificationToken, err := s.tokens.CreateEmailVerificationToken(existingUser.Email, s.verificationTokenTTL)
	if err != nil {
		s.logger.Warn("failed to create verification token", "error", err)
		return nil
	}

	s.sendVerificationEmailAsync(existingUser, verificationToken)

	return nil
}

// CurrentUser resolves an access token to the user it belongs to
func (s *Service) CurrentUser(ctx context.Context, accessToken string) (*user.User, error) {
	claims, err := s.tokens.DecodeAccessToken(accessToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	existingUser, err := s.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return existingUser, nil
}

// RequestPasswordReset initiates the password reset process
// Always returns nil to prevent email enumeration attacks
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil
		}
		s.logger.Warn("failed to get user for password reset", "error", err)
		return nil
	}

	token, err := generateRandomToken()
	if err != nil {
		s.logger.Warn("failed to generate password reset token", "error", err)
		return nil
	}

	if err := s.passwordResetStore.StorePasswordResetToken(ctx, existingUser.ID, token); err != nil {
		s.logger.Warn("failed to store password reset token", "error", err)
		return nil
	}

	// Send password reset email in goroutine (non-blocking)
	go func() {
		emailCtx := context.Background()
		if err := s.emailService.SendPasswordResetEmail(emailCtx, existingUser.Email, token); err != nil {
			s.logger.Warn("failed to send password reset email", "email", existingUser.Email, "error", err)
		}
	}()

	return nil
}

// ResetPassword resets a user's password using a valid reset token.
// The refresh token slot is cleared so existing sessions die with the
// old password.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return ErrPasswordRequired
	}
	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}

	userID, err := s.passwordResetStore.GetPasswordResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrPasswordResetTokenNotFound) {
			return ErrPasswordResetTokenNotFound
		}
		return fmt.Errorf("failed to get password reset token: %w", err)
	}

	passwordHash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.passwordResetStore.DeletePasswordResetToken(ctx, token); err != nil {
		s.logger.Warn("failed to delete password reset token", "error", err)
	}

	if err := s.users.RevokeRefreshToken(ctx, userID); err != nil {
		s.logger.Warn("failed to revoke refresh token after password reset", "error", err)
	}

	return nil
}

// generateTokens mints an access+refresh pair and persists the refresh
// token in the user's single slot, implicitly revoking any prior one
func (s *Service) generateTokens(ctx context.Context, u *user.User) (*AuthTokens, error) {
	accessToken, err := s.tokens.CreateAccessToken(u.ID, u.Email, s.accessTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	refreshToken, err := s.tokens.CreateRefreshToken(u.ID, u.Email, s.refreshTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh token: %w", err)
	}

	if err := s.users.SaveRefreshToken(ctx, u.ID, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTokenDuration.Seconds()),
	}, nil
}

// sendVerificationEmailAsync dispatches the verification email in a
// goroutine so slow SMTP never delays the caller's response
func (s *Service) sendVerificationEmailAsync(u *user.User, token string) {
	email := u.Email
	name := u.DisplayName()
	go func() {
		// Create a new context for the goroutine to avoid cancellation issues
		emailCtx := context.Background()
		if err := s.emailService.SendVerificationEmail(emailCtx, email, name, token); err != nil {
			// Log error but don't fail the caller
			// User can request a new verification email later
			s.logger.Warn("failed to send verification email", "email", email, "error", err)
		}
	}()
}

// generateRandomToken creates a cryptographically secure random token
func generateRandomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
