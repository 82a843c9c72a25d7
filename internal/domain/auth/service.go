package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"family-album-go/internal/apperr"
	authtoken "family-album-go/internal/auth"
	familydomain "family-album-go/internal/domain/family"
	userdomain "family-album-go/internal/domain/user"
	"github.com/google/uuid"
)

const minPasswordLength = 6

type TokenIssuer interface {
	IssueAccessToken(userID, email string) (string, error)
	IssueRefreshToken(userID, email string) (string, error)
	VerifyRefresh(token string) (authtoken.Claims, error)
	RefreshTTL() time.Duration
}

type Hasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(hash, password string) error
	HashToken(token string) (string, error)
	CompareToken(hash, token string) error
}

type Service struct {
	repo   Repository
	tokens TokenIssuer
	hasher Hasher
	now    func() time.Time
}

func NewService(repo Repository, tokens TokenIssuer, hasher Hasher) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		hasher: hasher,
		now:    time.Now,
	}
}

// Register creates the user, a family named after them and the owning
// membership in one transaction, together with the first refresh token.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	email := normalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.Wrap(ErrInvalidInput, errors.New("email is invalid"))
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperr.Wrap(ErrInvalidInput, fmt.Errorf("password must be at least %d characters", minPasswordLength))
	}
	displayName := strings.TrimSpace(input.DisplayName)

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, userdomain.ErrUserNotFound) {
		return nil, err
	}

	passwordHash, err := s.hasher.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := userdomain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Status:       userdomain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if displayName != "" {
		user.DisplayName = &displayName
	}
	family := familydomain.Family{
		ID:        uuid.NewString(),
		Name:      familyName(displayName, email),
		CreatedAt: now,
		UpdatedAt: now,
	}

	pair, record, err := s.newTokenPair(user.ID, user.Email, now)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateUser(ctx, &user); err != nil {
			return err
		}
		if err := tx.CreateFamily(ctx, &family); err != nil {
			return err
		}
		if _, err := familydomain.Join(ctx, tx, family.ID, user.ID, familydomain.RoleOwner); err != nil {
			return err
		}
		return tx.CreateRefreshToken(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	user.FamilyID = &family.ID
	return &Session{TokenPair: *pair, User: user, Family: &family}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.hasher.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active() {
		return nil, ErrUserDisabled
	}

	now := s.now().UTC()
	pair, record, err := s.newTokenPair(user.ID, user.Email, now)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.RevokeAllRefreshTokens(ctx, user.ID, now); err != nil {
			return err
		}
		return tx.CreateRefreshToken(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	session := &Session{TokenPair: *pair, User: *user}
	if user.FamilyID != nil {
		family, err := s.repo.GetFamily(ctx, *user.FamilyID)
		if err != nil && !errors.Is(err, familydomain.ErrFamilyNotFound) {
			return nil, err
		}
		session.Family = family
	}
	return session, nil
}

// Refresh rotates the refresh token: the presented token must match the single
// active record, which is revoked and replaced under a row lock.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	userID := claims.UserID()
	now := s.now().UTC()

	var result *TokenPair
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetActiveRefreshToken(ctx, userID)
		if err != nil {
			if errors.Is(err, ErrRefreshTokenMissing) {
				return ErrInvalidRefreshToken
			}
			return err
		}
		if err := s.hasher.CompareToken(current.TokenHash, refreshToken); err != nil {
			return ErrInvalidRefreshToken
		}
		if now.After(current.ExpiresAt) {
			return ErrInvalidRefreshToken
		}

		user, err := tx.GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, userdomain.ErrUserNotFound) {
				return ErrInvalidRefreshToken
			}
			return err
		}
		if !user.Active() {
			return ErrUserDisabled
		}

		pair, record, err := s.newTokenPair(user.ID, user.Email, now)
		if err != nil {
			return err
		}
		if err := tx.RevokeRefreshToken(ctx, current.ID, now); err != nil {
			return err
		}
		if err := tx.CreateRefreshToken(ctx, record); err != nil {
			return err
		}
		result = pair
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) Logout(ctx context.Context, userID string) error {
	return s.repo.RevokeAllRefreshTokens(ctx, userID, s.now().UTC())
}

func (s *Service) newTokenPair(userID, email string, now time.Time) (*TokenPair, *RefreshToken, error) {
	access, err := s.tokens.IssueAccessToken(userID, email)
	if err != nil {
		return nil, nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(userID, email)
	if err != nil {
		return nil, nil, err
	}
	hash, err := s.hasher.HashToken(refresh)
	if err != nil {
		return nil, nil, fmt.Errorf("hash refresh token: %w", err)
	}

	record := &RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: hash,
		ExpiresAt: now.Add(s.tokens.RefreshTTL()),
		CreatedAt: now,
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, record, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func familyName(displayName, email string) string {
	name := displayName
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	return name + "'s Family"
}
