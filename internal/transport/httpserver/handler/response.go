package handler

import (
	"encoding/json"
	"net/http"

	"family-album-go/internal/apperr"
	"family-album-go/internal/transport/httpserver/middleware"
	"family-album-go/internal/validation"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// decodeValid decodes the body into dst and validates it. It writes the error
// response itself and reports whether the handler may continue.
func (h *Handlers) decodeValid(w http.ResponseWriter, r *http.Request, op string, dst interface{}) bool {
	if err := decodeJSON(r, dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return false
	}
	if err := validation.Struct(dst); err != nil {
		h.fail(w, op+": invalid request", err)
		return false
	}
	return true
}

// fail maps err to a status through its apperr kind. Unclassified errors are
// logged as internal and answered with a generic message.
func (h *Handlers) fail(w http.ResponseWriter, message string, err error, args ...any) {
	kind, code, text := apperr.Describe(err)
	if kind == apperr.KindInternal {
		h.log.InternalError(message, err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	h.log.BusinessError(message, err, args...)
	writeError(w, statusFor(kind), code, text)
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindBadRequest:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func identity(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return middleware.Identity{}, false
	}
	return id, true
}

type pageResponse[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}
