package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"family-album-go/internal/apperr"
	mediadomain "family-album-go/internal/domain/media"
	"family-album-go/internal/pagination"
)

const readURLExpiresIn = time.Hour

type requestUploadRequest struct {
	Filename    string `json:"filename" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required"`
	Checksum    string `json:"checksum" validate:"required,max=128"`
	FileSize    int64  `json:"fileSize" validate:"required,gt=0"`
}

type completeUploadRequest struct {
	Key      string     `json:"key" validate:"required"`
	Checksum string     `json:"checksum" validate:"required,max=128"`
	ChildID  *string    `json:"childId" validate:"omitempty,uuid"`
	TakenAt  *time.Time `json:"takenAt"`
	Tags     []string   `json:"tags" validate:"max=50,dive,max=64"`
}

type uploadTicketResponse struct {
	Duplicate bool   `json:"duplicate"`
	PhotoID   string `json:"photoId,omitempty"`
	UploadURL string `json:"uploadUrl,omitempty"`
	Key       string `json:"key,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

type photoResponse struct {
	ID          string     `json:"id"`
	FamilyID    string     `json:"familyId"`
	ChildID     *string    `json:"childId"`
	UploaderID  string     `json:"uploaderId"`
	OriginalKey string     `json:"originalKey"`
	ResizedKey  *string    `json:"resizedKey"`
	ThumbKey    *string    `json:"thumbKey"`
	Checksum    string     `json:"checksum"`
	FileSize    int64      `json:"fileSize"`
	MimeType    string     `json:"mimeType"`
	TakenAt     *time.Time `json:"takenAt"`
	UploadedAt  time.Time  `json:"uploadedAt"`
	Tags        []string   `json:"tags"`
}

type photoURLResponse struct {
	URL       string `json:"url"`
	Size      string `json:"size"`
	ExpiresIn int    `json:"expiresIn"`
}

var errInvalidQuery = apperr.New(apperr.KindBadRequest, "invalid_request", "invalid query parameters")

func (h *Handlers) RequestUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req requestUploadRequest
	if !h.decodeValid(w, r, "media.request_upload", &req) {
		return
	}

	ticket, err := h.Media.RequestUpload(r.Context(), id.UserID, id.FamilyID, mediadomain.UploadRequest{
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Checksum:    req.Checksum,
		FileSize:    req.FileSize,
	})
	if err != nil {
		h.fail(w, "media.request_upload: request upload failed", err, "user_id", id.UserID, "family_id", id.FamilyID)
		return
	}

	writeJSON(w, http.StatusOK, uploadTicketResponse{
		Duplicate: ticket.Duplicate,
		PhotoID:   ticket.PhotoID,
		UploadURL: ticket.UploadURL,
		Key:       ticket.Key,
		ExpiresIn: int(ticket.ExpiresIn.Seconds()),
	})
}

func (h *Handlers) CompleteUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req completeUploadRequest
	if !h.decodeValid(w, r, "media.complete_upload", &req) {
		return
	}

	photo, err := h.Media.CompleteUpload(r.Context(), id.UserID, id.FamilyID, mediadomain.CompleteRequest{
		Key:      req.Key,
		Checksum: req.Checksum,
		ChildID:  req.ChildID,
		TakenAt:  req.TakenAt,
		Tags:     req.Tags,
	})
	if err != nil {
		h.fail(w, "media.complete_upload: complete upload failed", err, "user_id", id.UserID, "key", req.Key)
		return
	}

	withTags, err := h.Media.GetPhoto(r.Context(), id.UserID, photo.ID)
	if err != nil {
		h.fail(w, "media.complete_upload: reload photo failed", err, "user_id", id.UserID, "photo_id", photo.ID)
		return
	}

	writeJSON(w, http.StatusOK, toPhotoResponse(*withTags))
}

func (h *Handlers) ListPhotos(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	filter, err := parsePhotoFilter(r)
	if err != nil {
		h.fail(w, "media.list: invalid query", err, "user_id", id.UserID)
		return
	}

	result, err := h.Media.ListPhotos(r.Context(), id.UserID, filter)
	if err != nil {
		h.fail(w, "media.list: list photos failed", err, "user_id", id.UserID)
		return
	}

	items := make([]photoResponse, 0, len(result.Items))
	for _, photo := range result.Items {
		items = append(items, toPhotoResponse(photo))
	}
	writeJSON(w, http.StatusOK, pageResponse[photoResponse]{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

func (h *Handlers) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	photoID, valid := idParam(r, "id")
	if !valid {
		h.fail(w, "media.get: malformed photo id", mediadomain.ErrPhotoNotFound, "user_id", id.UserID, "photo_id", photoID)
		return
	}

	photo, err := h.Media.GetPhoto(r.Context(), id.UserID, photoID)
	if err != nil {
		h.fail(w, "media.get: get photo failed", err, "user_id", id.UserID, "photo_id", photoID)
		return
	}

	writeJSON(w, http.StatusOK, toPhotoResponse(*photo))
}

func (h *Handlers) GetPhotoURL(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	photoID, valid := idParam(r, "id")
	if !valid {
		h.fail(w, "media.get_url: malformed photo id", mediadomain.ErrPhotoNotFound, "user_id", id.UserID, "photo_id", photoID)
		return
	}

	size, err := mediadomain.ParseSize(r.URL.Query().Get("size"))
	if err != nil {
		h.fail(w, "media.get_url: invalid size", err, "user_id", id.UserID, "photo_id", photoID)
		return
	}

	url, err := h.Media.GetPhotoURL(r.Context(), id.UserID, photoID, size)
	if err != nil {
		h.fail(w, "media.get_url: presign failed", err, "user_id", id.UserID, "photo_id", photoID, "size", size)
		return
	}

	writeJSON(w, http.StatusOK, photoURLResponse{URL: url, Size: string(size), ExpiresIn: int(readURLExpiresIn.Seconds())})
}

func (h *Handlers) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	photoID, valid := idParam(r, "id")
	if !valid {
		h.fail(w, "media.delete: malformed photo id", mediadomain.ErrPhotoNotFound, "user_id", id.UserID, "photo_id", photoID)
		return
	}

	if err := h.Media.DeletePhoto(r.Context(), id.UserID, photoID); err != nil {
		h.fail(w, "media.delete: delete photo failed", err, "user_id", id.UserID, "photo_id", photoID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parsePhotoFilter(r *http.Request) (mediadomain.PhotoFilter, error) {
	query := r.URL.Query()

	page, err := parsePageParams(r)
	if err != nil {
		return mediadomain.PhotoFilter{}, apperr.Wrap(errInvalidQuery, err)
	}
	start, err := parseTimeParam(query.Get("startDate"), false)
	if err != nil {
		return mediadomain.PhotoFilter{}, apperr.Wrap(errInvalidQuery, err)
	}
	end, err := parseTimeParam(query.Get("endDate"), true)
	if err != nil {
		return mediadomain.PhotoFilter{}, apperr.Wrap(errInvalidQuery, err)
	}
	childID := strings.TrimSpace(query.Get("childId"))
	if childID != "" && !validID(childID) {
		return mediadomain.PhotoFilter{}, apperr.Wrap(errInvalidQuery, fmt.Errorf("invalid childId %q", childID))
	}
	sortBy, err := mediadomain.ParseSortField(query.Get("sortBy"))
	if err != nil {
		return mediadomain.PhotoFilter{}, err
	}
	sortOrder, err := pagination.ParseSortOrder(query.Get("sortOrder"), pagination.SortDesc)
	if err != nil {
		return mediadomain.PhotoFilter{}, err
	}

	return mediadomain.PhotoFilter{
		ChildID:   childID,
		StartDate: start,
		EndDate:   end,
		Page:      page,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}, nil
}

func toPhotoResponse(p mediadomain.PhotoWithTags) photoResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return photoResponse{
		ID:          p.ID,
		FamilyID:    p.FamilyID,
		ChildID:     p.ChildID,
		UploaderID:  p.UploaderID,
		OriginalKey: p.OriginalKey,
		ResizedKey:  p.ResizedKey,
		ThumbKey:    p.ThumbKey,
		Checksum:    p.Checksum,
		FileSize:    p.FileSize,
		MimeType:    p.MimeType,
		TakenAt:     p.TakenAt,
		UploadedAt:  p.UploadedAt,
		Tags:        tags,
	}
}
