package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"family-album-go/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingSecret = errors.New("jwt secret is required")
)

type Claims struct {
	Email string    `json:"email"`
	Type  TokenType `json:"typ"`
	jwt.RegisteredClaims
}

func (c Claims) UserID() string {
	return c.Subject
}

// TokenService signs and verifies HS256 tokens. It never touches storage.
type TokenService struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(cfg config.JWTConfig) (*TokenService, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, ErrMissingSecret
	}
	accessTTL := cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	refreshTTL := cfg.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}

	return &TokenService{
		secret:     []byte(secret),
		issuer:     cfg.Issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

func (s *TokenService) IssueAccessToken(userID, email string) (string, error) {
	return s.issue(userID, email, TokenTypeAccess, s.accessTTL)
}

func (s *TokenService) IssueRefreshToken(userID, email string) (string, error) {
	return s.issue(userID, email, TokenTypeRefresh, s.refreshTTL)
}

func (s *TokenService) issue(userID, email string, typ TokenType, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		Email: email,
		Type:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

// Verify checks signature and expiry only.
func (s *TokenService) Verify(tokenStr string) (Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) VerifyAccess(tokenStr string) (Claims, error) {
	return s.verifyType(tokenStr, TokenTypeAccess)
}

func (s *TokenService) VerifyRefresh(tokenStr string) (Claims, error) {
	return s.verifyType(tokenStr, TokenTypeRefresh)
}

func (s *TokenService) verifyType(tokenStr string, typ TokenType) (Claims, error) {
	claims, err := s.Verify(tokenStr)
	if err != nil {
		return Claims{}, err
	}
	if claims.Type != typ {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
