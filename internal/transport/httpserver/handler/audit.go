package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"family-album-go/internal/apperr"
	auditdomain "family-album-go/internal/domain/audit"
	"family-album-go/internal/pagination"
)

type auditLogResponse struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"userId"`
	UserName  *string   `json:"userName"`
	Action    string    `json:"action"`
	TargetID  *string   `json:"targetId"`
	IP        *string   `json:"ip"`
	UserAgent *string   `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
}

type actionTypesResponse struct {
	Actions []string `json:"actions"`
}

func (h *Handlers) QueryAuditLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	filter, err := parseAuditFilter(r)
	if err != nil {
		h.fail(w, "audit.query: invalid query", err, "user_id", id.UserID)
		return
	}

	result, err := h.Audit.QueryLogs(r.Context(), id.UserID, filter)
	if err != nil {
		h.fail(w, "audit.query: query logs failed", err, "user_id", id.UserID)
		return
	}

	writeJSON(w, http.StatusOK, toAuditPage(result))
}

func (h *Handlers) FamilyAuditLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	familyID := urlParam(r, "familyId")

	filter, err := parseAuditFilter(r)
	if err != nil {
		h.fail(w, "audit.family: invalid query", err, "user_id", id.UserID)
		return
	}
	filter.UserID = strings.TrimSpace(r.URL.Query().Get("userId"))
	if filter.UserID != "" && !validID(filter.UserID) {
		h.fail(w, "audit.family: invalid query", apperr.Wrap(errInvalidQuery, fmt.Errorf("invalid userId %q", filter.UserID)), "user_id", id.UserID)
		return
	}

	role, err := h.Families.GetRole(r.Context(), familyID, id.UserID)
	if err != nil {
		h.fail(w, "audit.family: resolve role failed", err, "user_id", id.UserID, "family_id", familyID)
		return
	}

	result, err := h.Audit.FamilyLogs(r.Context(), familyID, role, filter)
	if err != nil {
		h.fail(w, "audit.family: query logs failed", err, "user_id", id.UserID, "family_id", familyID)
		return
	}

	writeJSON(w, http.StatusOK, toAuditPage(result))
}

func (h *Handlers) AuditActionTypes(w http.ResponseWriter, r *http.Request) {
	actions, err := h.Audit.ActionTypes(r.Context())
	if err != nil {
		h.fail(w, "audit.actions: list actions failed", err)
		return
	}

	writeJSON(w, http.StatusOK, actionTypesResponse{Actions: actions})
}

func parseAuditFilter(r *http.Request) (auditdomain.Filter, error) {
	query := r.URL.Query()

	page, err := parsePageParams(r)
	if err != nil {
		return auditdomain.Filter{}, apperr.Wrap(errInvalidQuery, err)
	}
	start, err := parseTimeParam(query.Get("startDate"), false)
	if err != nil {
		return auditdomain.Filter{}, apperr.Wrap(errInvalidQuery, err)
	}
	end, err := parseTimeParam(query.Get("endDate"), true)
	if err != nil {
		return auditdomain.Filter{}, apperr.Wrap(errInvalidQuery, err)
	}

	return auditdomain.Filter{
		Action:    query.Get("action"),
		TargetID:  query.Get("targetId"),
		StartDate: start,
		EndDate:   end,
		Page:      page,
	}, nil
}

func toAuditPage(result pagination.Result[auditdomain.LogView]) pageResponse[auditLogResponse] {
	items := make([]auditLogResponse, 0, len(result.Items))
	for _, entry := range result.Items {
		items = append(items, auditLogResponse{
			ID:        entry.ID,
			UserID:    entry.UserID,
			UserName:  entry.UserName,
			Action:    entry.Action,
			TargetID:  entry.TargetID,
			IP:        entry.IP,
			UserAgent: entry.UserAgent,
			CreatedAt: entry.CreatedAt,
		})
	}
	return pageResponse[auditLogResponse]{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	}
}
