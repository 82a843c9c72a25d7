package user

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"family-album-go/internal/apperr"
)

const (
	maxDisplayNameLength = 100
	maxAvatarURLLength   = 2048
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) GetMe(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{User: *u}
	if u.FamilyID != nil {
		summary, err := s.repo.GetFamilySummary(ctx, *u.FamilyID)
		if err != nil {
			return nil, err
		}
		profile.Family = summary
	}
	return profile, nil
}

func (s *Service) UpdateMe(ctx context.Context, userID string, input UpdateInput) (*Profile, error) {
	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if utf8.RuneCountInString(name) > maxDisplayNameLength {
			return nil, apperr.Wrap(ErrInvalidInput, errors.New("displayName must be at most 100 characters"))
		}
		input.DisplayName = &name
	}
	if input.AvatarURL != nil {
		avatar := strings.TrimSpace(*input.AvatarURL)
		if len(avatar) > maxAvatarURLLength {
			return nil, apperr.Wrap(ErrInvalidInput, errors.New("avatarUrl is too long"))
		}
		input.AvatarURL = &avatar
	}

	if input.DisplayName != nil || input.AvatarURL != nil {
		if err := s.repo.UpdateProfile(ctx, userID, input); err != nil {
			return nil, err
		}
	}

	return s.GetMe(ctx, userID)
}
