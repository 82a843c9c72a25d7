package auth

import "family-album-go/internal/apperr"

var (
	ErrEmailTaken          = apperr.New(apperr.KindConflict, "email_taken", "email already registered")
	ErrInvalidCredentials  = apperr.New(apperr.KindUnauthorized, "invalid_credentials", "invalid email or password")
	ErrUserDisabled        = apperr.New(apperr.KindUnauthorized, "user_disabled", "account is disabled")
	ErrInvalidRefreshToken = apperr.New(apperr.KindUnauthorized, "invalid_refresh_token", "invalid refresh token")
	ErrRefreshTokenMissing = apperr.New(apperr.KindUnauthorized, "invalid_refresh_token", "no active refresh token")
	ErrInvalidInput        = apperr.New(apperr.KindBadRequest, "invalid_request", "invalid registration")
)
