package child

import (
	"context"
	"strings"
	"unicode/utf8"

	"family-album-go/internal/apperr"
	"github.com/google/uuid"
)

const maxNameLength = 100

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a child to familyID. An empty familyID means the caller is not
// in a family.
func (s *Service) Create(ctx context.Context, familyID string, input CreateInput) (*Child, error) {
	if familyID == "" {
		return nil, ErrNoFamily
	}

	name, err := normalizeName(input.Name)
	if err != nil {
		return nil, err
	}
	if input.Gender != nil && !input.Gender.Valid() {
		return nil, apperr.Wrap(ErrInvalidInput, errInvalidGender)
	}

	child := Child{
		ID:        uuid.NewString(),
		FamilyID:  familyID,
		Name:      name,
		Avatar:    trimOptional(input.Avatar),
		BirthDate: input.BirthDate,
		Gender:    input.Gender,
	}
	if err := s.repo.Create(ctx, &child); err != nil {
		return nil, err
	}
	return &child, nil
}

func (s *Service) List(ctx context.Context, familyID string) ([]Child, error) {
	if familyID == "" {
		return nil, ErrNoFamily
	}
	return s.repo.ListByFamily(ctx, familyID)
}

func (s *Service) Get(ctx context.Context, familyID, childID string) (*Child, error) {
	if familyID == "" {
		return nil, ErrNoFamily
	}

	child, err := s.repo.GetByID(ctx, childID)
	if err != nil {
		return nil, err
	}
	if child.FamilyID != familyID {
		return nil, ErrForbidden
	}
	return child, nil
}

func (s *Service) Update(ctx context.Context, familyID, childID string, input UpdateInput) (*Child, error) {
	child, err := s.Get(ctx, familyID, childID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name, err := normalizeName(*input.Name)
		if err != nil {
			return nil, err
		}
		child.Name = name
	}
	if input.Avatar != nil {
		child.Avatar = trimOptional(input.Avatar)
	}
	if input.BirthDate != nil {
		child.BirthDate = input.BirthDate
	}
	if input.Gender != nil {
		if !input.Gender.Valid() {
			return nil, apperr.Wrap(ErrInvalidInput, errInvalidGender)
		}
		child.Gender = input.Gender
	}

	if err := s.repo.Update(ctx, child); err != nil {
		return nil, err
	}
	return child, nil
}

func (s *Service) Delete(ctx context.Context, familyID, childID string) error {
	child, err := s.Get(ctx, familyID, childID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, child.ID)
}

// BelongsTo reports whether childID exists in familyID. Used to validate photo
// tagging.
func (s *Service) BelongsTo(ctx context.Context, familyID, childID string) (bool, error) {
	child, err := s.repo.GetByID(ctx, childID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return false, nil
		}
		return false, err
	}
	return child.FamilyID == familyID, nil
}

func normalizeName(value string) (string, error) {
	name := strings.TrimSpace(value)
	if name == "" {
		return "", apperr.Wrap(ErrInvalidInput, errNameRequired)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", apperr.Wrap(ErrInvalidInput, errNameTooLong)
	}
	return name, nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
