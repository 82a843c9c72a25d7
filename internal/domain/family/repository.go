package family

import "context"

// MembershipWriter is the subset of storage needed to move a user into a
// family. Other domains that change membership (invitations, registration)
// implement it inside their own transactions.
type MembershipWriter interface {
	GetMember(ctx context.Context, familyID, userID string) (*FamilyMember, error)
	DeleteMembershipsByUser(ctx context.Context, userID string) error
	AddMember(ctx context.Context, member *FamilyMember) error
	SetUserFamily(ctx context.Context, userID string, familyID *string) error
}

type Repository interface {
	MembershipWriter
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetFamily(ctx context.Context, familyID string) (*Family, error)
	GetMemberByID(ctx context.Context, familyID, memberID string) (*FamilyMember, error)
	GetMemberByUser(ctx context.Context, userID string) (*FamilyMember, error)
	ListMembersWithProfiles(ctx context.Context, familyID string) ([]MemberProfile, error)
	UpdateMemberRole(ctx context.Context, memberID string, role Role) error
	DeleteMember(ctx context.Context, memberID string) error
	UserExists(ctx context.Context, userID string) (bool, error)
}
