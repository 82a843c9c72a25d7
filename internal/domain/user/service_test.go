package user

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeUserRepo struct {
	users    map[string]*User
	families map[string]*FamilySummary
	updates  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[string]*User),
		families: make(map[string]*FamilySummary),
	}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID string) (*User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetFamilySummary(ctx context.Context, familyID string) (*FamilySummary, error) {
	f, ok := r.families[familyID]
	if !ok {
		return nil, nil
	}
	return f, nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, userID string, input UpdateInput) error {
	u, ok := r.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	r.updates++
	if input.DisplayName != nil {
		u.DisplayName = input.DisplayName
	}
	if input.AvatarURL != nil {
		u.AvatarURL = input.AvatarURL
	}
	return nil
}

func TestGetMeIncludesFamily(t *testing.T) {
	repo := newFakeUserRepo()
	familyID := "fam-1"
	repo.users["user-1"] = &User{ID: "user-1", Email: "a@example.com", Status: StatusActive, FamilyID: &familyID}
	repo.families["fam-1"] = &FamilySummary{ID: "fam-1", Name: "Smiths"}

	svc := NewService(repo)
	profile, err := svc.GetMe(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if profile.Family == nil || profile.Family.Name != "Smiths" {
		t.Fatalf("expected family summary, got %+v", profile.Family)
	}
}

func TestGetMeNotFound(t *testing.T) {
	svc := NewService(newFakeUserRepo())
	if _, err := svc.GetMe(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateMeTrimsDisplayName(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["user-1"] = &User{ID: "user-1", Email: "a@example.com", Status: StatusActive}

	svc := NewService(repo)
	name := "  Alice  "
	profile, err := svc.UpdateMe(context.Background(), "user-1", UpdateInput{DisplayName: &name})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if profile.DisplayName == nil || *profile.DisplayName != "Alice" {
		t.Fatalf("expected trimmed name, got %v", profile.DisplayName)
	}
}

func TestUpdateMeRejectsLongName(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["user-1"] = &User{ID: "user-1", Email: "a@example.com", Status: StatusActive}

	svc := NewService(repo)
	name := strings.Repeat("x", 101)
	_, err := svc.UpdateMe(context.Background(), "user-1", UpdateInput{DisplayName: &name})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if repo.updates != 0 {
		t.Fatalf("expected no update, got %d", repo.updates)
	}
}
