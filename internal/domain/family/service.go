package family

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo     Repository
	families Cache
}

type Option func(*Service)

// WithFamilyCache caches family records by id. Families are never renamed or
// deleted, so entries cannot go stale. Memberships are never cached.
func WithFamilyCache(cache Cache) Option {
	return func(s *Service) {
		if cache != nil {
			s.families = cache
		}
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, families: noopCache{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Membership returns the user's current membership, or nil when the user is
// not in any family. It always reads the database.
func (s *Service) Membership(ctx context.Context, userID string) (*FamilyMember, error) {
	member, err := s.repo.GetMemberByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return member, nil
}

// GetRole is the single source of truth for permission checks. It returns the
// empty role when the user is not a member of familyID.
func (s *Service) GetRole(ctx context.Context, familyID, userID string) (Role, error) {
	member, err := s.Membership(ctx, userID)
	if err != nil {
		return "", err
	}
	if member == nil || member.FamilyID != familyID {
		return "", nil
	}
	return member.Role, nil
}

func (s *Service) GetFamily(ctx context.Context, familyID string) (*Family, error) {
	if family, ok := s.families.Get(familyID); ok {
		return family, nil
	}
	family, err := s.repo.GetFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}
	s.families.Set(family)
	return family, nil
}

func (s *Service) GetMyRole(ctx context.Context, familyID, userID string) (Role, error) {
	role, err := s.GetRole(ctx, familyID, userID)
	if err != nil {
		return "", err
	}
	if role == "" {
		return "", ErrNotMember
	}
	return role, nil
}

func (s *Service) GetMembers(ctx context.Context, familyID, requesterID string) ([]MemberProfile, error) {
	role, err := s.GetRole(ctx, familyID, requesterID)
	if err != nil {
		return nil, err
	}
	if !Allow(role, ActionView) {
		return nil, ErrNotMember
	}

	return s.repo.ListMembersWithProfiles(ctx, familyID)
}

func (s *Service) AddMember(ctx context.Context, familyID, requesterID, userID string, role Role) (*FamilyMember, error) {
	requesterRole, err := s.GetRole(ctx, familyID, requesterID)
	if err != nil {
		return nil, err
	}
	if !Allow(requesterRole, ActionManageMembers) {
		return nil, ErrForbidden
	}
	if role == "" {
		role = RoleMember
	}
	if !role.Valid() || role == RoleOwner {
		return nil, ErrInvalidRole
	}

	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	var result *FamilyMember
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		member, err := Join(ctx, tx, familyID, userID, role)
		if err != nil {
			return err
		}
		result = member
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) UpdateMemberRole(ctx context.Context, familyID, memberID string, newRole Role, requesterID string) (*FamilyMember, error) {
	requesterRole, err := s.GetRole(ctx, familyID, requesterID)
	if err != nil {
		return nil, err
	}
	if !Allow(requesterRole, ActionManageMembers) {
		return nil, ErrForbidden
	}

	target, err := s.repo.GetMemberByID(ctx, familyID, memberID)
	if err != nil {
		return nil, err
	}
	if target.Role == RoleOwner {
		return nil, ErrOwnerImmutable
	}
	if !newRole.Valid() || newRole == RoleOwner {
		return nil, ErrInvalidRole
	}

	if err := s.repo.UpdateMemberRole(ctx, target.ID, newRole); err != nil {
		return nil, err
	}

	target.Role = newRole
	return target, nil
}

func (s *Service) RemoveMember(ctx context.Context, familyID, memberID, requesterID string) error {
	target, err := s.repo.GetMemberByID(ctx, familyID, memberID)
	if err != nil {
		return err
	}

	requesterRole, err := s.GetRole(ctx, familyID, requesterID)
	if err != nil {
		return err
	}
	if requesterRole == "" {
		return ErrNotMember
	}

	if target.UserID == requesterID {
		if target.Role == RoleOwner {
			return ErrOwnerCannotLeave
		}
	} else {
		if !Allow(requesterRole, ActionManageMembers) {
			return ErrForbidden
		}
		if target.Role == RoleOwner {
			return ErrOwnerImmutable
		}
		if requesterRole == RoleAdmin && target.Role == RoleAdmin {
			return ErrForbidden
		}
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.DeleteMember(ctx, target.ID); err != nil {
			return err
		}
		return tx.SetUserFamily(ctx, target.UserID, nil)
	})
}

// Join moves userID into familyID with role. A membership in any other family
// is deleted first, keeping a user in at most one family. It must run inside
// the caller's transaction.
func Join(ctx context.Context, w MembershipWriter, familyID, userID string, role Role) (*FamilyMember, error) {
	if _, err := w.GetMember(ctx, familyID, userID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, ErrMemberNotFound) {
		return nil, err
	}

	if err := w.DeleteMembershipsByUser(ctx, userID); err != nil {
		return nil, err
	}

	member := &FamilyMember{
		ID:       uuid.NewString(),
		FamilyID: familyID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}
	if err := w.AddMember(ctx, member); err != nil {
		return nil, err
	}

	if err := w.SetUserFamily(ctx, userID, &familyID); err != nil {
		return nil, err
	}
	return member, nil
}
