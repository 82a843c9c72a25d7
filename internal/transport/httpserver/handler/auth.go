package handler

import (
	"net/http"
	"time"

	authdomain "family-album-go/internal/domain/auth"
	familydomain "family-album-go/internal/domain/family"
	userdomain "family-album-go/internal/domain/user"
)

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"displayName" validate:"max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type sessionResponse struct {
	AccessToken  string                 `json:"accessToken"`
	RefreshToken string                 `json:"refreshToken"`
	User         userResponse           `json:"user"`
	Family       *familySummaryResponse `json:"family"`
}

type userResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"displayName"`
	AvatarURL   *string   `json:"avatarUrl"`
	Status      string    `json:"status"`
	FamilyID    *string   `json:"familyId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type familySummaryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decodeValid(w, r, "auth.register", &req) {
		return
	}

	session, err := h.Auth.Register(r.Context(), authdomain.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		h.fail(w, "auth.register: register failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(session))
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeValid(w, r, "auth.login", &req) {
		return
	}

	session, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, "auth.login: login failed", err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !h.decodeValid(w, r, "auth.refresh", &req) {
		return
	}

	pair, err := h.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.fail(w, "auth.refresh: refresh failed", err)
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.Auth.Logout(r.Context(), id.UserID); err != nil {
		h.fail(w, "auth.logout: revoke tokens failed", err, "user_id", id.UserID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toSessionResponse(session *authdomain.Session) sessionResponse {
	return sessionResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		User:         toUserResponse(session.User),
		Family:       toFamilySummary(session.Family),
	}
}

func toUserResponse(u userdomain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		Status:      string(u.Status),
		FamilyID:    u.FamilyID,
		CreatedAt:   u.CreatedAt,
	}
}

func toFamilySummary(f *familydomain.Family) *familySummaryResponse {
	if f == nil {
		return nil
	}
	return &familySummaryResponse{ID: f.ID, Name: f.Name}
}
