package handler

import (
	"net/http"
	"time"

	familydomain "family-album-go/internal/domain/family"
)

type addMemberRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Role   string `json:"role" validate:"omitempty,oneof=ADMIN MEMBER VIEWER"`
}

type updateMemberRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=ADMIN MEMBER VIEWER"`
}

type familyMemberResponse struct {
	ID          string    `json:"id"`
	FamilyID    string    `json:"familyId"`
	UserID      string    `json:"userId"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joinedAt"`
	Email       string    `json:"email,omitempty"`
	DisplayName *string   `json:"displayName,omitempty"`
	AvatarURL   *string   `json:"avatarUrl,omitempty"`
}

type membersResponse struct {
	Members []familyMemberResponse `json:"members"`
}

type myRoleResponse struct {
	FamilyID string `json:"familyId"`
	Role     string `json:"role"`
}

func (h *Handlers) ListFamilyMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	familyID := urlParam(r, "familyId")

	members, err := h.Families.GetMembers(r.Context(), familyID, id.UserID)
	if err != nil {
		h.fail(w, "families.list_members: list members failed", err, "user_id", id.UserID, "family_id", familyID)
		return
	}

	response := make([]familyMemberResponse, 0, len(members))
	for _, member := range members {
		response = append(response, familyMemberResponse{
			ID:          member.ID,
			FamilyID:    member.FamilyID,
			UserID:      member.UserID,
			Role:        string(member.Role),
			JoinedAt:    member.JoinedAt,
			Email:       member.Email,
			DisplayName: member.DisplayName,
			AvatarURL:   member.AvatarURL,
		})
	}

	writeJSON(w, http.StatusOK, membersResponse{Members: response})
}

func (h *Handlers) GetMyRole(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	familyID := urlParam(r, "familyId")

	role, err := h.Families.GetMyRole(r.Context(), familyID, id.UserID)
	if err != nil {
		h.fail(w, "families.my_role: get role failed", err, "user_id", id.UserID, "family_id", familyID)
		return
	}

	writeJSON(w, http.StatusOK, myRoleResponse{FamilyID: familyID, Role: string(role)})
}

func (h *Handlers) AddFamilyMember(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	familyID := urlParam(r, "familyId")

	var req addMemberRequest
	if !h.decodeValid(w, r, "families.add_member", &req) {
		return
	}
	role, err := familydomain.ParseAssignableRole(req.Role, familydomain.RoleMember)
	if err != nil {
		h.fail(w, "families.add_member: invalid role", err, "actor_id", id.UserID)
		return
	}

	member, err := h.Families.AddMember(r.Context(), familyID, id.UserID, req.UserID, role)
	if err != nil {
		h.fail(w, "families.add_member: add member failed", err, "actor_id", id.UserID, "family_id", familyID, "user_id", req.UserID)
		return
	}

	writeJSON(w, http.StatusCreated, toMemberResponse(member))
}

func (h *Handlers) UpdateFamilyMemberRole(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	familyID := urlParam(r, "familyId")
	memberID, valid := idParam(r, "memberId")
	if !valid {
		h.fail(w, "families.update_member_role: malformed member id", familydomain.ErrMemberNotFound, "actor_id", id.UserID, "member_id", memberID)
		return
	}

	var req updateMemberRoleRequest
	if !h.decodeValid(w, r, "families.update_member_role", &req) {
		return
	}
	role, err := familydomain.ParseRole(req.Role)
	if err != nil {
		h.fail(w, "families.update_member_role: invalid role", err, "actor_id", id.UserID)
		return
	}

	member, err := h.Families.UpdateMemberRole(r.Context(), familyID, memberID, role, id.UserID)
	if err != nil {
		h.fail(w, "families.update_member_role: update role failed", err, "actor_id", id.UserID, "family_id", familyID, "member_id", memberID)
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(member))
}

func (h *Handlers) RemoveFamilyMember(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	familyID := urlParam(r, "familyId")
	memberID, valid := idParam(r, "memberId")
	if !valid {
		h.fail(w, "families.remove_member: malformed member id", familydomain.ErrMemberNotFound, "actor_id", id.UserID, "member_id", memberID)
		return
	}

	if err := h.Families.RemoveMember(r.Context(), familyID, memberID, id.UserID); err != nil {
		h.fail(w, "families.remove_member: remove member failed", err, "actor_id", id.UserID, "family_id", familyID, "member_id", memberID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toMemberResponse(member *familydomain.FamilyMember) familyMemberResponse {
	return familyMemberResponse{
		ID:       member.ID,
		FamilyID: member.FamilyID,
		UserID:   member.UserID,
		Role:     string(member.Role),
		JoinedAt: member.JoinedAt,
	}
}
