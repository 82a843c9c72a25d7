package child

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

type fakeChildRepo struct {
	children map[string]*Child
	clock    time.Time
}

func newFakeChildRepo() *fakeChildRepo {
	return &fakeChildRepo{children: make(map[string]*Child), clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (r *fakeChildRepo) Create(ctx context.Context, child *Child) error {
	r.clock = r.clock.Add(time.Second)
	child.CreatedAt = r.clock
	clone := *child
	r.children[child.ID] = &clone
	return nil
}

func (r *fakeChildRepo) GetByID(ctx context.Context, childID string) (*Child, error) {
	child, ok := r.children[childID]
	if !ok {
		return nil, ErrChildNotFound
	}
	clone := *child
	return &clone, nil
}

func (r *fakeChildRepo) ListByFamily(ctx context.Context, familyID string) ([]Child, error) {
	result := make([]Child, 0)
	for _, child := range r.children {
		if child.FamilyID == familyID {
			result = append(result, *child)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *fakeChildRepo) Update(ctx context.Context, child *Child) error {
	if _, ok := r.children[child.ID]; !ok {
		return ErrChildNotFound
	}
	clone := *child
	r.children[child.ID] = &clone
	return nil
}

func (r *fakeChildRepo) Delete(ctx context.Context, childID string) error {
	delete(r.children, childID)
	return nil
}

func genderPtr(g Gender) *Gender {
	return &g
}

func TestCreateAndList(t *testing.T) {
	service := NewService(newFakeChildRepo())
	ctx := context.Background()

	first, err := service.Create(ctx, "fam-1", CreateInput{Name: "  Mia ", Gender: genderPtr(GenderFemale)})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first.Name != "Mia" {
		t.Fatalf("expected trimmed name, got %q", first.Name)
	}
	if _, err := service.Create(ctx, "fam-1", CreateInput{Name: "Leo"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := service.Create(ctx, "fam-2", CreateInput{Name: "Other"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	children, err := service.List(ctx, "fam-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(children) != 2 || children[0].Name != "Mia" || children[1].Name != "Leo" {
		t.Fatalf("expected Mia then Leo, got %+v", children)
	}
}

func TestCreateValidation(t *testing.T) {
	service := NewService(newFakeChildRepo())
	ctx := context.Background()

	if _, err := service.Create(ctx, "", CreateInput{Name: "Mia"}); !errors.Is(err, ErrNoFamily) {
		t.Fatalf("expected ErrNoFamily, got %v", err)
	}
	if _, err := service.Create(ctx, "fam-1", CreateInput{Name: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := service.Create(ctx, "fam-1", CreateInput{Name: "Mia", Gender: genderPtr("UNKNOWN")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for gender, got %v", err)
	}
}

func TestCrossFamilyAccess(t *testing.T) {
	service := NewService(newFakeChildRepo())
	ctx := context.Background()

	child, err := service.Create(ctx, "fam-1", CreateInput{Name: "Mia"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := service.Get(ctx, "fam-2", child.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := service.Delete(ctx, "fam-2", child.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}
	if _, err := service.Get(ctx, "fam-1", "missing"); !errors.Is(err, ErrChildNotFound) {
		t.Fatalf("expected ErrChildNotFound, got %v", err)
	}
}

func TestUpdatePartial(t *testing.T) {
	service := NewService(newFakeChildRepo())
	ctx := context.Background()

	birth := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	child, err := service.Create(ctx, "fam-1", CreateInput{Name: "Mia", BirthDate: &birth})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	name := "Mia Rose"
	updated, err := service.Update(ctx, "fam-1", child.ID, UpdateInput{Name: &name, Gender: genderPtr(GenderFemale)})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Name != "Mia Rose" || updated.BirthDate == nil || !updated.BirthDate.Equal(birth) {
		t.Fatalf("unexpected update result %+v", updated)
	}
	if updated.Gender == nil || *updated.Gender != GenderFemale {
		t.Fatalf("expected gender set, got %v", updated.Gender)
	}
}

func TestBelongsTo(t *testing.T) {
	service := NewService(newFakeChildRepo())
	ctx := context.Background()

	child, _ := service.Create(ctx, "fam-1", CreateInput{Name: "Mia"})

	ok, err := service.BelongsTo(ctx, "fam-1", child.ID)
	if err != nil || !ok {
		t.Fatalf("expected child to belong to fam-1, got %v %v", ok, err)
	}
	ok, err = service.BelongsTo(ctx, "fam-2", child.ID)
	if err != nil || ok {
		t.Fatalf("expected child not to belong to fam-2, got %v %v", ok, err)
	}
	ok, err = service.BelongsTo(ctx, "fam-1", "missing")
	if err != nil || ok {
		t.Fatalf("expected missing child to report false, got %v %v", ok, err)
	}
}
