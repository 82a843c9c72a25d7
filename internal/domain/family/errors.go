package family

import "family-album-go/internal/apperr"

var (
	ErrFamilyNotFound   = apperr.New(apperr.KindNotFound, "family_not_found", "family not found")
	ErrMemberNotFound   = apperr.New(apperr.KindNotFound, "member_not_found", "member not found")
	ErrUserNotFound     = apperr.New(apperr.KindNotFound, "user_not_found", "user not found")
	ErrNotMember        = apperr.New(apperr.KindForbidden, "not_family_member", "you are not a member of this family")
	ErrForbidden        = apperr.New(apperr.KindForbidden, "forbidden", "insufficient family role")
	ErrOwnerImmutable   = apperr.New(apperr.KindForbidden, "owner_immutable", "the family owner cannot be changed or removed")
	ErrOwnerCannotLeave = apperr.New(apperr.KindBadRequest, "owner_cannot_leave", "owner cannot leave the family")
	ErrAlreadyMember    = apperr.New(apperr.KindBadRequest, "already_member", "user is already a member of this family")
	ErrInvalidRole      = apperr.New(apperr.KindBadRequest, "invalid_role", "invalid role")
)
