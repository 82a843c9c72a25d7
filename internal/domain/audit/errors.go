package audit

import "family-album-go/internal/apperr"

var ErrForbidden = apperr.New(apperr.KindForbidden, "forbidden", "only family owners and admins can view the family audit log")
