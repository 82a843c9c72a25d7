package handler

import (
	"net/http"
	"time"

	"family-album-go/internal/apperr"
	childdomain "family-album-go/internal/domain/child"
)

type createChildRequest struct {
	Name      string  `json:"name" validate:"required,max=100"`
	Avatar    *string `json:"avatar" validate:"omitempty,max=2048"`
	BirthDate *string `json:"birthDate"`
	Gender    *string `json:"gender" validate:"omitempty,oneof=MALE FEMALE OTHER"`
}

type updateChildRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=100"`
	Avatar    *string `json:"avatar" validate:"omitempty,max=2048"`
	BirthDate *string `json:"birthDate"`
	Gender    *string `json:"gender" validate:"omitempty,oneof=MALE FEMALE OTHER"`
}

type childResponse struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"familyId"`
	Name      string    `json:"name"`
	Avatar    *string   `json:"avatar"`
	BirthDate *string   `json:"birthDate"`
	Gender    *string   `json:"gender"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var errInvalidBirthDate = apperr.New(apperr.KindBadRequest, "invalid_request", "birthDate must be YYYY-MM-DD")

func (h *Handlers) CreateChild(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req createChildRequest
	if !h.decodeValid(w, r, "children.create", &req) {
		return
	}
	birthDate, err := parseDateField(req.BirthDate)
	if err != nil {
		h.fail(w, "children.create: invalid birth date", errInvalidBirthDate, "user_id", id.UserID)
		return
	}

	result, err := h.Children.Create(r.Context(), id.FamilyID, childdomain.CreateInput{
		Name:      req.Name,
		Avatar:    req.Avatar,
		BirthDate: birthDate,
		Gender:    toGender(req.Gender),
	})
	if err != nil {
		h.fail(w, "children.create: create child failed", err, "user_id", id.UserID)
		return
	}

	writeJSON(w, http.StatusCreated, toChildResponse(*result))
}

func (h *Handlers) ListChildren(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	children, err := h.Children.List(r.Context(), id.FamilyID)
	if err != nil {
		h.fail(w, "children.list: list children failed", err, "user_id", id.UserID)
		return
	}

	response := make([]childResponse, 0, len(children))
	for _, child := range children {
		response = append(response, toChildResponse(child))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetChild(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	childID, valid := idParam(r, "id")
	if !valid {
		h.fail(w, "children.get: malformed child id", childdomain.ErrChildNotFound, "user_id", id.UserID, "child_id", childID)
		return
	}

	result, err := h.Children.Get(r.Context(), id.FamilyID, childID)
	if err != nil {
		h.fail(w, "children.get: get child failed", err, "user_id", id.UserID, "child_id", childID)
		return
	}

	writeJSON(w, http.StatusOK, toChildResponse(*result))
}

func (h *Handlers) UpdateChild(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	childID, valid := idParam(r, "id")
	if !valid {
		h.fail(w, "children.update: malformed child id", childdomain.ErrChildNotFound, "user_id", id.UserID, "child_id", childID)
		return
	}

	var req updateChildRequest
	if !h.decodeValid(w, r, "children.update", &req) {
		return
	}
	birthDate, err := parseDateField(req.BirthDate)
	if err != nil {
		h.fail(w, "children.update: invalid birth date", errInvalidBirthDate, "user_id", id.UserID)
		return
	}

	result, err := h.Children.Update(r.Context(), id.FamilyID, childID, childdomain.UpdateInput{
		Name:      req.Name,
		Avatar:    req.Avatar,
		BirthDate: birthDate,
		Gender:    toGender(req.Gender),
	})
	if err != nil {
		h.fail(w, "children.update: update child failed", err, "user_id", id.UserID, "child_id", childID)
		return
	}

	writeJSON(w, http.StatusOK, toChildResponse(*result))
}

func (h *Handlers) DeleteChild(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	childID, valid := idParam(r, "id")
	if !valid {
		h.fail(w, "children.delete: malformed child id", childdomain.ErrChildNotFound, "user_id", id.UserID, "child_id", childID)
		return
	}

	if err := h.Children.Delete(r.Context(), id.FamilyID, childID); err != nil {
		h.fail(w, "children.delete: delete child failed", err, "user_id", id.UserID, "child_id", childID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toGender(value *string) *childdomain.Gender {
	if value == nil || *value == "" {
		return nil
	}
	gender := childdomain.Gender(*value)
	return &gender
}

func toChildResponse(c childdomain.Child) childResponse {
	response := childResponse{
		ID:        c.ID,
		FamilyID:  c.FamilyID,
		Name:      c.Name,
		Avatar:    c.Avatar,
		BirthDate: formatDate(c.BirthDate),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Gender != nil {
		gender := string(*c.Gender)
		response.Gender = &gender
	}
	return response
}
