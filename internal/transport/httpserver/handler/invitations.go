package handler

import (
	"net/http"
	"strings"
	"time"

	"family-album-go/internal/apperr"
	invitationdomain "family-album-go/internal/domain/invitation"
)

type createInvitationRequest struct {
	Role          string `json:"role" validate:"omitempty,oneof=ADMIN MEMBER VIEWER"`
	Email         string `json:"email" validate:"omitempty,email"`
	ExpiresInDays int    `json:"expiresInDays" validate:"omitempty,min=1,max=365"`
}

type acceptInvitationRequest struct {
	Token string `json:"token" validate:"required"`
}

type invitationResponse struct {
	ID        string           `json:"id"`
	FamilyID  string           `json:"familyId"`
	Token     string           `json:"token"`
	Role      string           `json:"role"`
	Email     *string          `json:"email"`
	ExpiresAt time.Time        `json:"expiresAt"`
	UsedAt    *time.Time       `json:"usedAt"`
	CreatedAt time.Time        `json:"createdAt"`
	Inviter   *inviterResponse `json:"inviter,omitempty"`
}

type inviterResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName *string `json:"displayName"`
}

type invitationsResponse struct {
	Invitations []invitationResponse `json:"invitations"`
}

type validateInvitationResponse struct {
	Valid     bool                  `json:"valid"`
	Role      string                `json:"role"`
	ExpiresAt time.Time             `json:"expiresAt"`
	Family    familySummaryResponse `json:"family"`
	Inviter   inviterResponse       `json:"inviter"`
}

type acceptInvitationResponse struct {
	Member familyMemberResponse   `json:"member"`
	Family *familySummaryResponse `json:"family"`
}

var errTokenRequired = apperr.New(apperr.KindBadRequest, "invalid_request", "token is required")

func (h *Handlers) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	familyID := urlParam(r, "familyId")

	var req createInvitationRequest
	if !h.decodeValid(w, r, "invitations.create", &req) {
		return
	}

	invitation, err := h.Invitations.Create(r.Context(), familyID, id.UserID, invitationdomain.CreateInput{
		Role:          req.Role,
		Email:         req.Email,
		ExpiresInDays: req.ExpiresInDays,
	})
	if err != nil {
		h.fail(w, "invitations.create: create invitation failed", err, "user_id", id.UserID, "family_id", familyID)
		return
	}

	writeJSON(w, http.StatusCreated, toInvitationResponse(*invitation, nil))
}

func (h *Handlers) ListInvitations(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	familyID := urlParam(r, "familyId")

	listed, err := h.Invitations.List(r.Context(), familyID, id.UserID)
	if err != nil {
		h.fail(w, "invitations.list: list invitations failed", err, "user_id", id.UserID, "family_id", familyID)
		return
	}

	response := make([]invitationResponse, 0, len(listed))
	for _, item := range listed {
		inviter := toInviterResponse(item.Inviter)
		response = append(response, toInvitationResponse(item.Invitation, &inviter))
	}
	writeJSON(w, http.StatusOK, invitationsResponse{Invitations: response})
}

func (h *Handlers) RevokeInvitation(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	familyID := urlParam(r, "familyId")
	invitationID, valid := idParam(r, "invitationId")
	if !valid {
		h.fail(w, "invitations.revoke: malformed invitation id", invitationdomain.ErrInvitationNotFound, "user_id", id.UserID, "invitation_id", invitationID)
		return
	}

	if err := h.Invitations.Revoke(r.Context(), invitationID, familyID, id.UserID); err != nil {
		h.fail(w, "invitations.revoke: revoke invitation failed", err, "user_id", id.UserID, "family_id", familyID, "invitation_id", invitationID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ValidateInvitation(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		h.fail(w, "invitations.validate: missing token", errTokenRequired)
		return
	}

	details, err := h.Invitations.Validate(r.Context(), token)
	if err != nil {
		h.fail(w, "invitations.validate: validate invitation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, validateInvitationResponse{
		Valid:     true,
		Role:      string(details.Invitation.Role),
		ExpiresAt: details.Invitation.ExpiresAt,
		Family:    familySummaryResponse{ID: details.Family.ID, Name: details.Family.Name},
		Inviter:   toInviterResponse(details.Inviter),
	})
}

func (h *Handlers) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req acceptInvitationRequest
	if !h.decodeValid(w, r, "invitations.accept", &req) {
		return
	}

	member, err := h.Invitations.Accept(r.Context(), strings.TrimSpace(req.Token), id.UserID)
	if err != nil {
		h.fail(w, "invitations.accept: accept invitation failed", err, "user_id", id.UserID)
		return
	}

	response := acceptInvitationResponse{Member: toMemberResponse(member)}
	family, err := h.Families.GetFamily(r.Context(), member.FamilyID)
	if err != nil {
		h.log.BusinessError("invitations.accept: load family failed", err, "family_id", member.FamilyID)
	} else {
		response.Family = toFamilySummary(family)
	}

	writeJSON(w, http.StatusOK, response)
}

func toInvitationResponse(inv invitationdomain.Invitation, inviter *inviterResponse) invitationResponse {
	return invitationResponse{
		ID:        inv.ID,
		FamilyID:  inv.FamilyID,
		Token:     inv.Token,
		Role:      string(inv.Role),
		Email:     inv.Email,
		ExpiresAt: inv.ExpiresAt,
		UsedAt:    inv.UsedAt,
		CreatedAt: inv.CreatedAt,
		Inviter:   inviter,
	}
}

func toInviterResponse(inviter invitationdomain.Inviter) inviterResponse {
	return inviterResponse{ID: inviter.ID, Email: inviter.Email, DisplayName: inviter.DisplayName}
}
