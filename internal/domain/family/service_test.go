package family

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

type fakeFamilyRepo struct {
	families    map[string]*Family
	members     map[string]*FamilyMember
	userFamily  map[string]*string
	failAddOnce error

	// afterMemberRead runs once after GetMemberByUser has loaded its row.
	afterMemberRead func()
	familyReads     int
}

func newFakeFamilyRepo() *fakeFamilyRepo {
	return &fakeFamilyRepo{
		families:   make(map[string]*Family),
		members:    make(map[string]*FamilyMember),
		userFamily: make(map[string]*string),
	}
}

func (r *fakeFamilyRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeFamilyRepo) GetFamily(ctx context.Context, familyID string) (*Family, error) {
	r.familyReads++
	family, ok := r.families[familyID]
	if !ok {
		return nil, ErrFamilyNotFound
	}
	return family, nil
}

func (r *fakeFamilyRepo) GetMember(ctx context.Context, familyID, userID string) (*FamilyMember, error) {
	for _, member := range r.members {
		if member.FamilyID == familyID && member.UserID == userID {
			clone := *member
			return &clone, nil
		}
	}
	return nil, ErrMemberNotFound
}

func (r *fakeFamilyRepo) GetMemberByID(ctx context.Context, familyID, memberID string) (*FamilyMember, error) {
	member, ok := r.members[memberID]
	if !ok || member.FamilyID != familyID {
		return nil, ErrMemberNotFound
	}
	clone := *member
	return &clone, nil
}

func (r *fakeFamilyRepo) GetMemberByUser(ctx context.Context, userID string) (*FamilyMember, error) {
	var found *FamilyMember
	for _, member := range r.members {
		if member.UserID == userID {
			clone := *member
			found = &clone
			break
		}
	}
	if hook := r.afterMemberRead; hook != nil {
		r.afterMemberRead = nil
		hook()
	}
	if found == nil {
		return nil, ErrMemberNotFound
	}
	return found, nil
}

func (r *fakeFamilyRepo) ListMembersWithProfiles(ctx context.Context, familyID string) ([]MemberProfile, error) {
	result := make([]MemberProfile, 0)
	for _, member := range r.members {
		if member.FamilyID == familyID {
			result = append(result, MemberProfile{
				ID:       member.ID,
				FamilyID: member.FamilyID,
				UserID:   member.UserID,
				Role:     member.Role,
				JoinedAt: member.JoinedAt,
				Email:    member.UserID + "@example.com",
			})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].JoinedAt.Before(result[j].JoinedAt) })
	return result, nil
}

func (r *fakeFamilyRepo) AddMember(ctx context.Context, member *FamilyMember) error {
	if r.failAddOnce != nil {
		err := r.failAddOnce
		r.failAddOnce = nil
		return err
	}
	for _, existing := range r.members {
		if existing.UserID == member.UserID {
			return ErrAlreadyMember
		}
	}
	clone := *member
	r.members[member.ID] = &clone
	return nil
}

func (r *fakeFamilyRepo) UpdateMemberRole(ctx context.Context, memberID string, role Role) error {
	member, ok := r.members[memberID]
	if !ok {
		return ErrMemberNotFound
	}
	member.Role = role
	return nil
}

func (r *fakeFamilyRepo) DeleteMember(ctx context.Context, memberID string) error {
	delete(r.members, memberID)
	return nil
}

func (r *fakeFamilyRepo) DeleteMembershipsByUser(ctx context.Context, userID string) error {
	for id, member := range r.members {
		if member.UserID == userID {
			delete(r.members, id)
		}
	}
	return nil
}

func (r *fakeFamilyRepo) SetUserFamily(ctx context.Context, userID string, familyID *string) error {
	r.userFamily[userID] = familyID
	return nil
}

func (r *fakeFamilyRepo) UserExists(ctx context.Context, userID string) (bool, error) {
	_, ok := r.userFamily[userID]
	return ok, nil
}

func (r *fakeFamilyRepo) seedMember(id, familyID, userID string, role Role, joinedAt time.Time) {
	r.members[id] = &FamilyMember{ID: id, FamilyID: familyID, UserID: userID, Role: role, JoinedAt: joinedAt}
	fid := familyID
	r.userFamily[userID] = &fid
}

func (r *fakeFamilyRepo) membershipsOf(userID string) int {
	count := 0
	for _, member := range r.members {
		if member.UserID == userID {
			count++
		}
	}
	return count
}

func seededRepo() *fakeFamilyRepo {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := newFakeFamilyRepo()
	repo.families["fam-1"] = &Family{ID: "fam-1", Name: "Fam"}
	repo.seedMember("m-owner", "fam-1", "owner", RoleOwner, base)
	repo.seedMember("m-admin", "fam-1", "admin", RoleAdmin, base.Add(time.Minute))
	repo.seedMember("m-admin2", "fam-1", "admin2", RoleAdmin, base.Add(2*time.Minute))
	repo.seedMember("m-member", "fam-1", "member", RoleMember, base.Add(3*time.Minute))
	return repo
}

func TestGetRole(t *testing.T) {
	svc := NewService(seededRepo())

	role, err := svc.GetRole(context.Background(), "fam-1", "admin")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if role != RoleAdmin {
		t.Fatalf("expected ADMIN, got %q", role)
	}

	role, err = svc.GetRole(context.Background(), "fam-2", "admin")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if role != "" {
		t.Fatalf("expected empty role for other family, got %q", role)
	}
}

func TestGetMembersOrderedByJoinTime(t *testing.T) {
	svc := NewService(seededRepo())

	members, err := svc.GetMembers(context.Background(), "fam-1", "member")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(members) != 4 {
		t.Fatalf("expected 4 members, got %d", len(members))
	}
	if members[0].UserID != "owner" || members[3].UserID != "member" {
		t.Fatalf("expected join order, got %+v", members)
	}
}

func TestGetMembersRequiresMembership(t *testing.T) {
	svc := NewService(seededRepo())

	_, err := svc.GetMembers(context.Background(), "fam-1", "stranger")
	if !errors.Is(err, ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}

func TestAddMemberMovesUserFromOtherFamily(t *testing.T) {
	repo := seededRepo()
	repo.families["fam-2"] = &Family{ID: "fam-2", Name: "Other"}
	repo.seedMember("m-other", "fam-2", "newcomer", RoleOwner, time.Now())

	svc := NewService(repo)
	member, err := svc.AddMember(context.Background(), "fam-1", "admin", "newcomer", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if member.Role != RoleMember {
		t.Fatalf("expected default MEMBER role, got %q", member.Role)
	}
	if repo.membershipsOf("newcomer") != 1 {
		t.Fatalf("expected exactly one membership, got %d", repo.membershipsOf("newcomer"))
	}
	if got := repo.userFamily["newcomer"]; got == nil || *got != "fam-1" {
		t.Fatalf("expected family pointer fam-1, got %v", got)
	}
}

func TestAddMemberAlreadyMember(t *testing.T) {
	svc := NewService(seededRepo())

	_, err := svc.AddMember(context.Background(), "fam-1", "owner", "member", RoleMember)
	if !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
}

func TestAddMemberRequiresManager(t *testing.T) {
	repo := seededRepo()
	repo.userFamily["newcomer"] = nil
	svc := NewService(repo)

	_, err := svc.AddMember(context.Background(), "fam-1", "member", "newcomer", RoleMember)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAddMemberConcurrentJoinIsAlreadyMember(t *testing.T) {
	repo := seededRepo()
	repo.userFamily["newcomer"] = nil
	repo.failAddOnce = ErrAlreadyMember
	svc := NewService(repo)

	_, err := svc.AddMember(context.Background(), "fam-1", "owner", "newcomer", RoleMember)
	if !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember from unique violation, got %v", err)
	}
}

func TestUpdateMemberRole(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo)

	member, err := svc.UpdateMemberRole(context.Background(), "fam-1", "m-member", RoleViewer, "admin")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if member.Role != RoleViewer || repo.members["m-member"].Role != RoleViewer {
		t.Fatalf("expected VIEWER, got %q", repo.members["m-member"].Role)
	}
}

func TestUpdateMemberRoleOwnerImmutable(t *testing.T) {
	svc := NewService(seededRepo())

	for _, requester := range []string{"owner", "admin"} {
		_, err := svc.UpdateMemberRole(context.Background(), "fam-1", "m-owner", RoleMember, requester)
		if !errors.Is(err, ErrOwnerImmutable) {
			t.Fatalf("requester %s: expected ErrOwnerImmutable, got %v", requester, err)
		}
	}
}

func TestUpdateMemberRoleCannotGrantOwner(t *testing.T) {
	svc := NewService(seededRepo())

	_, err := svc.UpdateMemberRole(context.Background(), "fam-1", "m-member", RoleOwner, "owner")
	if !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestUpdateMemberRoleErrors(t *testing.T) {
	svc := NewService(seededRepo())

	if _, err := svc.UpdateMemberRole(context.Background(), "fam-1", "m-admin", RoleViewer, "member"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.UpdateMemberRole(context.Background(), "fam-1", "missing", RoleViewer, "owner"); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestRemoveMemberRules(t *testing.T) {
	cases := []struct {
		name      string
		memberID  string
		requester string
		want      error
	}{
		{"member removes owner", "m-owner", "member", ErrForbidden},
		{"admin removes owner", "m-owner", "admin", ErrOwnerImmutable},
		{"owner removes self", "m-owner", "owner", ErrOwnerCannotLeave},
		{"admin removes admin", "m-admin2", "admin", ErrForbidden},
		{"member removes member", "m-admin", "member", ErrForbidden},
		{"stranger removes member", "m-member", "stranger", ErrNotMember},
		{"missing member", "nope", "owner", ErrMemberNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(seededRepo())
			err := svc.RemoveMember(context.Background(), "fam-1", tc.memberID, tc.requester)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRemoveMemberSuccessClearsFamilyPointer(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo)

	if err := svc.RemoveMember(context.Background(), "fam-1", "m-member", "admin"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := repo.members["m-member"]; ok {
		t.Fatalf("expected member removed")
	}
	if repo.userFamily["member"] != nil {
		t.Fatalf("expected family pointer cleared")
	}
}

func TestMemberCanLeave(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo)

	if err := svc.RemoveMember(context.Background(), "fam-1", "m-member", "member"); err != nil {
		t.Fatalf("expected self removal to succeed, got %v", err)
	}
}

func TestRemovalDuringRoleReadIsNotRemembered(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo)
	ctx := context.Background()

	repo.afterMemberRead = func() {
		if err := svc.RemoveMember(ctx, "fam-1", "m-admin", "owner"); err != nil {
			t.Fatalf("remove member: %v", err)
		}
	}
	role, err := svc.GetRole(ctx, "fam-1", "admin")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if role != RoleAdmin {
		t.Fatalf("expected in-flight read to see ADMIN, got %q", role)
	}

	role, err = svc.GetRole(ctx, "fam-1", "admin")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if role != "" {
		t.Fatalf("expected removed admin to have no role, got %q", role)
	}
	if _, err := svc.GetMembers(ctx, "fam-1", "admin"); !errors.Is(err, ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}

func TestRoleChangesVisibleImmediately(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo, WithFamilyCache(&mapCache{items: make(map[string]Family)}))
	ctx := context.Background()

	if role, _ := svc.GetRole(ctx, "fam-1", "member"); role != RoleMember {
		t.Fatalf("expected MEMBER, got %q", role)
	}
	// Another replica demotes the member directly in the database.
	repo.members["m-member"].Role = RoleViewer

	if role, _ := svc.GetRole(ctx, "fam-1", "member"); role != RoleViewer {
		t.Fatalf("expected VIEWER immediately, got %q", role)
	}
}

type mapCache struct {
	items map[string]Family
}

func (c *mapCache) Get(familyID string) (*Family, bool) {
	family, ok := c.items[familyID]
	return &family, ok
}

func (c *mapCache) Set(family *Family) {
	c.items[family.ID] = *family
}

func TestGetFamilyUsesCache(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo, WithFamilyCache(&mapCache{items: make(map[string]Family)}))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		family, err := svc.GetFamily(ctx, "fam-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if family.ID != "fam-1" {
			t.Fatalf("expected fam-1, got %s", family.ID)
		}
	}
	if repo.familyReads != 1 {
		t.Fatalf("expected one repository read, got %d", repo.familyReads)
	}
	if _, err := svc.GetFamily(ctx, "missing"); !errors.Is(err, ErrFamilyNotFound) {
		t.Fatalf("expected ErrFamilyNotFound, got %v", err)
	}
}
