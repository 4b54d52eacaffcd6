package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appErrors "github.com/veerababu-g/budget-planner/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 365 * 24 * time.Hour
)

type Storage interface {
	SaveUser(ctx context.Context, user User) error
	GetUserByUsername(ctx context.Context, username string) (User, error)
	IsUserExists(ctx context.Context, username string) (bool, error)
	SaveRefreshToken(ctx context.Context, token RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

type Service struct {
	storage       Storage
	secret        []byte
	refreshSecret []byte
}

func NewService(storage Storage, secret, refreshSecret string) *Service {
	return &Service{
		storage:       storage,
		secret:        []byte(secret),
		refreshSecret: []byte(refreshSecret),
	}
}

type claims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash plain password: %w", err)
	}
	return string(hashedPassword), nil
}

func ComparePasswords(hashedPwd string, plainPwd string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPwd), []byte(plainPwd))
	return err == nil
}

func (s *Service) Register(ctx context.Context, newUser NewUser) (TokenPair, error) {
	if err := newUser.Validate(); err != nil {
		return TokenPair{}, err
	}

	username := strings.ToLower(newUser.Username)
	exists, err := s.storage.IsUserExists(ctx, username)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to check username availability: %w", err)
	}
	if exists {
		return TokenPair{}, fmt.Errorf("%w: this '%s' username already taken", appErrors.ErrConflict, username)
	}

	hashedPassword, err := HashPassword(newUser.PasswordPlain)
	if err != nil {
		return TokenPair{}, err
	}

	user := User{
		ID:             uuid.New().String(),
		Username:       username,
		PasswordHashed: hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		return TokenPair{}, fmt.Errorf("failed to registration: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *Service) Login(ctx context.Context, credentials Credentials) (TokenPair, error) {
	user, err := s.storage.GetUserByUsername(ctx, strings.ToLower(credentials.Username))
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: invalid username or password", appErrors.ErrAuth)
	}
	if !ComparePasswords(user.PasswordHashed, credentials.PasswordPlain) {
		return TokenPair{}, fmt.Errorf("%w: invalid username or password", appErrors.ErrAuth)
	}
	return s.issueTokens(ctx, user)
}

func (s *Service) issueTokens(ctx context.Context, user User) (TokenPair, error) {
	access, err := s.signToken(user.ID, "access", s.secret, accessTokenTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := s.signToken(user.ID, "refresh", s.refreshSecret, refreshTokenTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	record := RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: time.Now().UTC().Add(refreshTokenTTL),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.storage.SaveRefreshToken(ctx, record); err != nil {
		return TokenPair{}, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) signToken(userID, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(secret)
}

func (s *Service) parseToken(tokenStr, wantType string, secret []byte) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: invalid or expired token", appErrors.ErrAuth)
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || c.TokenType != wantType {
		return "", fmt.Errorf("%w: wrong token type", appErrors.ErrAuth)
	}
	return c.Subject, nil
}

// VerifyAccess validates an access token and returns the user ID it was
// issued for.
func (s *Service) VerifyAccess(tokenStr string) (string, error) {
	return s.parseToken(tokenStr, "access", s.secret)
}

// Refresh mints a new access token from a valid, unrevoked refresh
// token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.parseToken(refreshToken, "refresh", s.refreshSecret)
	if err != nil {
		return "", err
	}

	record, err := s.storage.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return "", fmt.Errorf("%w: unknown refresh token", appErrors.ErrAuth)
		}
		return "", fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if record.Revoked {
		return "", fmt.Errorf("%w: refresh token has been revoked", appErrors.ErrAuth)
	}
	if record.ExpiresAt.Before(time.Now().UTC()) {
		return "", fmt.Errorf("%w: refresh token expired", appErrors.ErrAuth)
	}

	access, err := s.signToken(userID, "access", s.secret, accessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return access, nil
}

// Logout revokes the refresh token. Access tokens stay valid until they
// expire; they are short-lived.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if err := s.storage.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}
