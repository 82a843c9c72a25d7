package handler

import (
	"net/http"

	userdomain "family-album-go/internal/domain/user"
)

type updateMeRequest struct {
	DisplayName *string `json:"displayName" validate:"omitempty,max=100"`
	AvatarURL   *string `json:"avatarUrl" validate:"omitempty,max=2048"`
}

type profileResponse struct {
	userResponse
	Family *familySummaryResponse `json:"family"`
}

func (h *Handlers) GetMe(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	profile, err := h.Users.GetMe(r.Context(), id.UserID)
	if err != nil {
		h.fail(w, "users.get_me: load profile failed", err, "user_id", id.UserID)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (h *Handlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req updateMeRequest
	if !h.decodeValid(w, r, "users.update_me", &req) {
		return
	}

	profile, err := h.Users.UpdateMe(r.Context(), id.UserID, userdomain.UpdateInput{
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		h.fail(w, "users.update_me: update profile failed", err, "user_id", id.UserID)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

func toProfileResponse(profile *userdomain.Profile) profileResponse {
	response := profileResponse{userResponse: toUserResponse(profile.User)}
	if profile.Family != nil {
		response.Family = &familySummaryResponse{ID: profile.Family.ID, Name: profile.Family.Name}
	}
	return response
}
