package child

import (
	"errors"

	"family-album-go/internal/apperr"
)

var (
	ErrNoFamily      = apperr.New(apperr.KindForbidden, "no_family", "user does not belong to a family")
	ErrChildNotFound = apperr.New(apperr.KindNotFound, "child_not_found", "child not found")
	ErrForbidden     = apperr.New(apperr.KindForbidden, "forbidden", "child belongs to another family")
	ErrInvalidInput  = apperr.New(apperr.KindBadRequest, "invalid_input", "invalid child")
)

var (
	errNameRequired  = errors.New("name is required")
	errNameTooLong   = errors.New("name must be at most 100 characters")
	errInvalidGender = errors.New("gender must be MALE, FEMALE or OTHER")
)
