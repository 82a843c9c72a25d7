package media

import "family-album-go/internal/apperr"

var (
	ErrPhotoNotFound    = apperr.New(apperr.KindNotFound, "photo_not_found", "photo not found")
	ErrForbidden        = apperr.New(apperr.KindForbidden, "forbidden", "you are not a member of this family")
	ErrUploadNotAllowed = apperr.New(apperr.KindForbidden, "upload_not_allowed", "viewers cannot upload photos")
	ErrNotUploader      = apperr.New(apperr.KindForbidden, "not_uploader", "only the uploader can delete this photo")
	ErrInvalidKey       = apperr.New(apperr.KindBadRequest, "invalid_key", "invalid object key")
	ErrInvalidChild     = apperr.New(apperr.KindBadRequest, "invalid_child", "child does not belong to this family")
	ErrInvalidUpload    = apperr.New(apperr.KindBadRequest, "invalid_upload", "invalid upload request")
	ErrFileTooLarge     = apperr.New(apperr.KindBadRequest, "file_too_large", "file exceeds the maximum upload size")
	ErrInvalidSize      = apperr.New(apperr.KindBadRequest, "invalid_size", "size must be original, resized or thumb")
	ErrInvalidSortField = apperr.New(apperr.KindBadRequest, "invalid_sort_by", "sortBy must be uploadedAt or takenAt")
	ErrVariantMissing   = apperr.New(apperr.KindBadRequest, "variant_missing", "photo file does not exist")
	ErrProcessingFailed = apperr.New(apperr.KindBadRequest, "processing_failed", "file processing failed")
	ErrDuplicatePhoto   = apperr.New(apperr.KindConflict, "duplicate_photo", "photo already exists in this family")
)
