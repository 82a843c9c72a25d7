package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"family-album-go/internal/pagination"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// parseTimeParam accepts a date or an RFC 3339 timestamp. endOfDay moves a
// bare date to the last instant of that day so ranges are inclusive.
func parseTimeParam(value string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return &parsed, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", value)
	}
	if endOfDay {
		parsed = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	return &parsed, nil
}

func parseDateField(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(*value))
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", *value)
	}
	return &parsed, nil
}

func parseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid int")
	}
	return parsed, nil
}

func parsePageParams(r *http.Request) (pagination.Params, error) {
	query := r.URL.Query()
	page, err := parseIntParam(query.Get("page"), 1)
	if err != nil {
		return pagination.Params{}, fmt.Errorf("invalid page")
	}
	limit, err := parseIntParam(query.Get("limit"), 0)
	if err != nil {
		return pagination.Params{}, fmt.Errorf("invalid limit")
	}
	return pagination.Params{Page: page, Limit: limit}, nil
}

func urlParam(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}

// idParam reads a path id. ok is false unless the value is a canonical UUID,
// so malformed ids never reach the database.
func idParam(r *http.Request, name string) (string, bool) {
	value := urlParam(r, name)
	return value, validID(value)
}

func validID(value string) bool {
	return len(value) == 36 && uuid.Validate(value) == nil
}

func formatDate(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.Format(dateLayout)
	return &formatted
}
