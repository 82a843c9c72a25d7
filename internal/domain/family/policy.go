package family

import (
	"strings"
)

type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
	RoleViewer Role = "VIEWER"
)

type Action string

const (
	ActionView              Action = "view"
	ActionViewInvitations   Action = "view_invitations"
	ActionUpload            Action = "upload"
	ActionManageMembers     Action = "manage_members"
	ActionManageInvitations Action = "manage_invitations"
	ActionViewFamilyAudit   Action = "view_family_audit"
)

var roleWeight = map[Role]int{
	RoleViewer: 1,
	RoleMember: 2,
	RoleAdmin:  3,
	RoleOwner:  4,
}

var minimumRole = map[Action]Role{
	ActionView:              RoleViewer,
	ActionViewInvitations:   RoleViewer,
	ActionUpload:            RoleMember,
	ActionManageMembers:     RoleAdmin,
	ActionManageInvitations: RoleAdmin,
	ActionViewFamilyAudit:   RoleAdmin,
}

// Allow reports whether a member holding role may perform action.
// The empty role (not a member) is never allowed anything.
func Allow(role Role, action Action) bool {
	weight, ok := roleWeight[role]
	if !ok {
		return false
	}
	required, ok := minimumRole[action]
	if !ok {
		return false
	}
	return weight >= roleWeight[required]
}

func (r Role) Valid() bool {
	_, ok := roleWeight[r]
	return ok
}

func ParseRole(value string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(value)))
	if !role.Valid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// ParseAssignableRole parses a role that can be granted through an invitation,
// a direct add or a role change. OWNER is never assignable.
func ParseAssignableRole(value string, fallback Role) (Role, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	role, err := ParseRole(value)
	if err != nil {
		return "", err
	}
	if role == RoleOwner {
		return "", ErrInvalidRole
	}
	return role, nil
}
