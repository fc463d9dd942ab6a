package auth

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Token purposes. Every token carries exactly one and every decoder
// checks for its own, so a verification link can never be replayed as a
// login credential and vice versa.
const (
	purposeAccess            = "access"
	purposeRefresh           = "refresh"
	purposeEmailVerification = "email_verification"
)

// TokenClaims represents the claims stored in a PASETO token
type TokenClaims struct {
	UserID    string    `json:"user_id"` // UUID stored as string in token
	Email     string    `json:"email"`
	Purpose   string    `json:"purpose"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenService mints and verifies the three token kinds used by the
// auth flows: access, refresh and email-verification tokens.
// Uses PASETO v4.local (symmetric encryption with XChaCha20-Poly1305).
type TokenService struct {
	symmetricKey paseto.V4SymmetricKey
	now          func() time.Time
}

func NewTokenService(symmetricKey []byte) (*TokenService, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(symmetricKey))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &TokenService{
		symmetricKey: key,
		now:          time.Now,
	}, nil
}

// CreateAccessToken generates a short-lived token proving authentication
func (s *TokenService) CreateAccessToken(userID uuid.UUID, email string, duration time.Duration) (string, error) {
	return s.createToken(purposeAccess, userID.String(), email, duration)
}

// CreateRefreshToken generates a long-lived token exchangeable for a new pair
func (s *TokenService) CreateRefreshToken(userID uuid.UUID, email string, duration time.Duration) (string, error) {
	return s.createToken(purposeRefresh, userID.String(), email, duration)
}

// CreateEmailVerificationToken generates a token for the verification link.
// It carries only the subject email, no user ID.
func (s *TokenService) CreateEmailVerificationToken(email string, duration time.Duration) (string, error) {
	return s.createToken(purposeEmailVerification, "", email, duration)
}

func (s *TokenService) createToken(purpose, userID, email string, duration time.Duration) (string, error) {
	now := s.now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetExpiration(now.Add(duration))
	token.SetString("purpose", purpose)
	token.SetString("email", email)
	if userID != "" {
		token.SetString("user_id", userID)
	}

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// DecodeAccessToken validates an access token and returns its claims
func (s *TokenService) DecodeAccessToken(tokenStr string) (*TokenClaims, error) {
	return s.decodeToken(tokenStr, purposeAccess)
}

// DecodeRefreshToken validates a refresh token and returns its claims.
// Callers must additionally cross-check the token string against the
// user's stored slot; a valid signature alone does not prove the token
// is still the current one.
func (s *TokenService) DecodeRefreshToken(tokenStr string) (*TokenClaims, error) {
	return s.decodeToken(tokenStr, purposeRefresh)
}

// VerifyEmailToken validates an email-verification token and returns
// the subject email
func (s *TokenService) VerifyEmailToken(tokenStr string) (string, error) {
	claims, err := s.decodeToken(tokenStr, purposeEmailVerification)
	if err != nil {
		return "", err
	}
	return claims.Email, nil
}

func (s *TokenService) decodeToken(tokenStr, wantPurpose string) (*TokenClaims, error) {
	parser := paseto.NewParser()

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		// The parser checks expiration by default; distinguish expired from invalid
		if errors.Is(err, &paseto.RuleError{}) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	purpose, err := token.GetString("purpose")
	if err != nil || purpose != wantPurpose {
		return nil, ErrInvalidToken
	}

	email, err := token.GetString("email")
	if err != nil {
		return nil, ErrInvalidToken
	}

	// user_id is absent on email-verification tokens
	userID, _ := token.GetString("user_id")

	issuedAt, err := token.GetIssuedAt()
	if err != nil {
		return nil, ErrInvalidToken
	}

	expiresAt, err := token.GetExpiration()
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &TokenClaims{
		UserID:    userID,
		Email:     email,
		Purpose:   purpose,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}
