package user

import "family-album-go/internal/apperr"

var (
	ErrUserNotFound = apperr.New(apperr.KindNotFound, "user_not_found", "user not found")
	ErrInvalidInput = apperr.New(apperr.KindBadRequest, "invalid_request", "invalid profile update")
)
