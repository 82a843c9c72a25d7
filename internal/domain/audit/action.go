package audit

import (
	"net/http"
	"strings"
)

const (
	ActionAuth             = "AUTH"
	ActionFamilyCreate     = "FAMILY_CREATE"
	ActionFamilyDelete     = "FAMILY_DELETE"
	ActionFamilySwitch     = "FAMILY_SWITCH"
	ActionMemberAdd        = "MEMBER_ADD"
	ActionMemberRemove     = "MEMBER_REMOVE"
	ActionMemberRoleUpdate = "MEMBER_ROLE_UPDATE"
	ActionInvitationAccept = "INVITATION_ACCEPT"
	ActionInvitationReject = "INVITATION_REJECT"
	ActionInvitationCreate = "INVITATION_CREATE"
	ActionInvitationRevoke = "INVITATION_REVOKE"
	ActionPhotoUpload      = "PHOTO_UPLOAD"
	ActionPhotoDelete      = "PHOTO_DELETE"
	ActionUserUpdate       = "USER_UPDATE"
	ActionChildCreate      = "CHILD_CREATE"
	ActionChildUpdate      = "CHILD_UPDATE"
	ActionChildDelete      = "CHILD_DELETE"
	ActionUnknown          = "UNKNOWN"
)

// Audited reports whether requests with method are written to the audit log.
func Audited(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}

// DeriveAction maps a mutating request to an action label. Invitation routes
// are matched before family routes because invitations are nested under
// /families/{familyId}.
func DeriveAction(method, path string) string {
	switch {
	case strings.Contains(path, "/auth/"):
		return ActionAuth
	case strings.Contains(path, "/invitations"):
		return invitationAction(method, path)
	case strings.Contains(path, "/families"):
		return familyAction(method, path)
	case strings.Contains(path, "/media"):
		if method == http.MethodDelete {
			return ActionPhotoDelete
		}
		if strings.Contains(path, "/complete") {
			return ActionPhotoUpload
		}
	case strings.Contains(path, "/children"):
		switch method {
		case http.MethodPost:
			return ActionChildCreate
		case http.MethodPatch, http.MethodPut:
			return ActionChildUpdate
		case http.MethodDelete:
			return ActionChildDelete
		}
	case strings.Contains(path, "/users"):
		return ActionUserUpdate
	}
	return ActionUnknown
}

func invitationAction(method, path string) string {
	switch method {
	case http.MethodPost:
		switch {
		case strings.Contains(path, "/accept"):
			return ActionInvitationAccept
		case strings.Contains(path, "/reject"):
			return ActionInvitationReject
		default:
			return ActionInvitationCreate
		}
	case http.MethodDelete:
		return ActionInvitationRevoke
	}
	return ActionUnknown
}

func familyAction(method, path string) string {
	if strings.Contains(path, "/members") {
		switch method {
		case http.MethodPost:
			return ActionMemberAdd
		case http.MethodDelete:
			return ActionMemberRemove
		case http.MethodPatch, http.MethodPut:
			return ActionMemberRoleUpdate
		}
		return ActionUnknown
	}
	switch {
	case strings.Contains(path, "/switch"):
		return ActionFamilySwitch
	case method == http.MethodPost:
		return ActionFamilyCreate
	case method == http.MethodDelete:
		return ActionFamilyDelete
	}
	return ActionUnknown
}
