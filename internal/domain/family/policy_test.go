package family

import (
	"errors"
	"testing"
)

func TestAllow(t *testing.T) {
	cases := []struct {
		role   Role
		action Action
		want   bool
	}{
		{RoleOwner, ActionManageMembers, true},
		{RoleAdmin, ActionManageInvitations, true},
		{RoleMember, ActionManageMembers, false},
		{RoleMember, ActionUpload, true},
		{RoleViewer, ActionUpload, false},
		{RoleViewer, ActionView, true},
		{RoleMember, ActionViewFamilyAudit, false},
		{"", ActionView, false},
		{RoleOwner, Action("unknown"), false},
	}
	for _, tc := range cases {
		if got := Allow(tc.role, tc.action); got != tc.want {
			t.Fatalf("Allow(%q, %q): expected %v, got %v", tc.role, tc.action, tc.want, got)
		}
	}
}

func TestParseAssignableRole(t *testing.T) {
	role, err := ParseAssignableRole("", RoleMember)
	if err != nil || role != RoleMember {
		t.Fatalf("expected default MEMBER, got %q %v", role, err)
	}
	role, err = ParseAssignableRole("viewer", RoleMember)
	if err != nil || role != RoleViewer {
		t.Fatalf("expected VIEWER, got %q %v", role, err)
	}
	if _, err := ParseAssignableRole("OWNER", RoleMember); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected OWNER rejected, got %v", err)
	}
	if _, err := ParseAssignableRole("king", RoleMember); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected unknown role rejected, got %v", err)
	}
}
