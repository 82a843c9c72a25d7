package invitation

import "family-album-go/internal/apperr"

var (
	ErrInvitationNotFound = apperr.New(apperr.KindNotFound, "invitation_not_found", "invitation not found")
	ErrInvitationUsed     = apperr.New(apperr.KindBadRequest, "invitation_used", "invitation has already been used")
	ErrInvitationExpired  = apperr.New(apperr.KindBadRequest, "invitation_expired", "invitation has expired")
	ErrForbidden          = apperr.New(apperr.KindForbidden, "forbidden", "only owners and admins can manage invitations")
	ErrNotMember          = apperr.New(apperr.KindForbidden, "not_family_member", "you are not a member of this family")
	ErrInvalidExpiry      = apperr.New(apperr.KindBadRequest, "invalid_expiry", "expiresInDays must be between 1 and 365")
)
