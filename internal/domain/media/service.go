package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"family-album-go/internal/apperr"
	familydomain "family-album-go/internal/domain/family"
	"family-album-go/internal/pagination"
	"family-album-go/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	keyPrefix         = "photos"
	uploadURLExpiry   = 15 * time.Minute
	readURLExpiry     = time.Hour
	defaultPageLimit  = 50
	maxPageLimit      = 200
	defaultMaxUpload  = 50 << 20
	derivativeMIME    = "image/jpeg"
	resizedObjectName = "resized.jpg"
	thumbObjectName   = "thumb.jpg"
)

type Service struct {
	repo           Repository
	store          ObjectStore
	images         ImageProcessor
	members        Memberships
	children       Children
	log            logger.Logger
	maxUploadBytes int64
	now            func() time.Time
}

type Option func(*Service)

func WithMaxUploadBytes(limit int64) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxUploadBytes = limit
		}
	}
}

func NewService(repo Repository, store ObjectStore, images ImageProcessor, members Memberships, children Children, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:           repo,
		store:          store,
		images:         images,
		members:        members,
		children:       children,
		log:            log,
		maxUploadBytes: defaultMaxUpload,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) RequestUpload(ctx context.Context, userID, familyID string, req UploadRequest) (*UploadTicket, error) {
	if err := s.requireUpload(ctx, familyID, userID); err != nil {
		return nil, err
	}

	checksum := strings.TrimSpace(req.Checksum)
	if checksum == "" || strings.TrimSpace(req.Filename) == "" {
		return nil, apperr.Wrap(ErrInvalidUpload, errors.New("filename and checksum are required"))
	}
	if !strings.HasPrefix(strings.ToLower(req.ContentType), "image/") {
		return nil, apperr.Wrap(ErrInvalidUpload, errors.New("content type must be an image"))
	}
	if req.FileSize <= 0 {
		return nil, apperr.Wrap(ErrInvalidUpload, errors.New("file size must be positive"))
	}
	if req.FileSize > s.maxUploadBytes {
		return nil, ErrFileTooLarge
	}

	existing, err := s.repo.FindByChecksum(ctx, familyID, checksum)
	if err == nil {
		return &UploadTicket{Duplicate: true, PhotoID: existing.ID}, nil
	}
	if !errors.Is(err, ErrPhotoNotFound) {
		return nil, err
	}

	photoID := uuid.NewString()
	key := originalKey(familyID, photoID, req.Filename)
	url, err := s.store.PresignPut(ctx, key, req.ContentType, uploadURLExpiry)
	if err != nil {
		return nil, err
	}

	return &UploadTicket{
		PhotoID:   photoID,
		UploadURL: url,
		Key:       key,
		ExpiresIn: uploadURLExpiry,
	}, nil
}

func (s *Service) CompleteUpload(ctx context.Context, userID, familyID string, req CompleteRequest) (*Photo, error) {
	if err := s.requireUpload(ctx, familyID, userID); err != nil {
		return nil, err
	}

	photoID, err := photoIDFromKey(familyID, req.Key)
	if err != nil {
		return nil, err
	}
	checksum := strings.TrimSpace(req.Checksum)
	if checksum == "" {
		return nil, apperr.Wrap(ErrInvalidUpload, errors.New("checksum is required"))
	}

	if req.ChildID != nil && *req.ChildID != "" {
		ok, err := s.children.BelongsTo(ctx, familyID, *req.ChildID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrInvalidChild
		}
	} else {
		req.ChildID = nil
	}

	if existing, err := s.repo.FindByChecksum(ctx, familyID, checksum); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrPhotoNotFound) {
		return nil, err
	}

	original, err := s.store.Get(ctx, req.Key, s.maxUploadBytes)
	if err != nil {
		return nil, apperr.Wrap(ErrProcessingFailed, err)
	}
	derived, err := s.images.Derive(original)
	if err != nil {
		return nil, apperr.Wrap(ErrProcessingFailed, err)
	}

	dir := path.Dir(req.Key)
	resizedKey := dir + "/" + resizedObjectName
	thumbKey := dir + "/" + thumbObjectName

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.store.Put(gctx, resizedKey, bytes.NewReader(derived.Resized), int64(len(derived.Resized)), derivativeMIME)
	})
	g.Go(func() error {
		return s.store.Put(gctx, thumbKey, bytes.NewReader(derived.Thumb), int64(len(derived.Thumb)), derivativeMIME)
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Wrap(ErrProcessingFailed, err)
	}

	photo := Photo{
		ID:          photoID,
		FamilyID:    familyID,
		ChildID:     req.ChildID,
		UploaderID:  userID,
		OriginalKey: req.Key,
		ResizedKey:  &resizedKey,
		ThumbKey:    &thumbKey,
		Checksum:    checksum,
		FileSize:    int64(len(original)),
		MimeType:    mimeFromFormat(derived.Format),
		TakenAt:     req.TakenAt,
		UploadedAt:  s.now().UTC(),
	}
	tags := normalizeTags(req.Tags)

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.Create(ctx, &photo); err != nil {
			return err
		}
		return tx.AddTags(ctx, photo.ID, tags)
	})
	if errors.Is(err, ErrDuplicatePhoto) {
		return s.repo.FindByChecksum(ctx, familyID, checksum)
	}
	if err != nil {
		return nil, apperr.Wrap(ErrProcessingFailed, err)
	}

	return &photo, nil
}

// ListPhotos lists photos of the caller's current family.
func (s *Service) ListPhotos(ctx context.Context, userID string, filter PhotoFilter) (pagination.Result[PhotoWithTags], error) {
	member, err := s.members.Membership(ctx, userID)
	if err != nil {
		return pagination.Result[PhotoWithTags]{}, err
	}
	if member == nil {
		return pagination.Result[PhotoWithTags]{}, ErrForbidden
	}

	filter.Page = filter.Page.Normalize(defaultPageLimit, maxPageLimit)
	if filter.SortBy == "" {
		filter.SortBy = SortByUploadedAt
	}
	if filter.SortOrder == "" {
		filter.SortOrder = pagination.SortDesc
	}

	items, total, err := s.repo.List(ctx, member.FamilyID, filter)
	if err != nil {
		return pagination.Result[PhotoWithTags]{}, err
	}
	return pagination.NewResult(items, total, filter.Page), nil
}

func (s *Service) GetPhoto(ctx context.Context, userID, photoID string) (*PhotoWithTags, error) {
	photo, err := s.repo.GetByID(ctx, photoID)
	if err != nil {
		return nil, err
	}

	role, err := s.members.GetRole(ctx, photo.FamilyID, userID)
	if err != nil {
		return nil, err
	}
	if !familydomain.Allow(role, familydomain.ActionView) {
		return nil, ErrForbidden
	}
	return photo, nil
}

func (s *Service) GetPhotoURL(ctx context.Context, userID, photoID string, size Size) (string, error) {
	photo, err := s.GetPhoto(ctx, userID, photoID)
	if err != nil {
		return "", err
	}

	var key string
	switch size {
	case SizeOriginal:
		key = photo.OriginalKey
	case SizeThumb, SizeResized, "":
		variant := photo.ResizedKey
		if size == SizeThumb {
			variant = photo.ThumbKey
		}
		if variant != nil {
			key = *variant
		}
	default:
		return "", ErrInvalidSize
	}
	if key == "" {
		return "", ErrVariantMissing
	}

	return s.store.PresignGet(ctx, key, readURLExpiry)
}

// DeletePhoto removes the photo row and its objects. Object removal failures
// are logged and left to the orphan sweep.
func (s *Service) DeletePhoto(ctx context.Context, userID, photoID string) error {
	photo, err := s.GetPhoto(ctx, userID, photoID)
	if err != nil {
		return err
	}
	if photo.UploaderID != userID {
		return ErrNotUploader
	}

	keys := []string{photo.OriginalKey}
	if photo.ResizedKey != nil {
		keys = append(keys, *photo.ResizedKey)
	}
	if photo.ThumbKey != nil {
		keys = append(keys, *photo.ThumbKey)
	}
	s.deleteObjects(ctx, keys)

	return s.repo.Delete(ctx, photo.ID)
}

// SweepOrphans removes objects under photos/ that belong to no photo row and
// were last modified before the grace period. It returns the number of
// objects removed.
func (s *Service) SweepOrphans(ctx context.Context, grace time.Duration) (int, error) {
	objects, err := s.store.List(ctx, keyPrefix+"/")
	if err != nil {
		return 0, fmt.Errorf("list objects: %w", err)
	}

	cutoff := s.now().Add(-grace)
	candidates := make(map[string][]string)
	for _, object := range objects {
		if object.LastModified.After(cutoff) {
			continue
		}
		photoID, ok := photoIDFromAnyKey(object.Key)
		if !ok {
			continue
		}
		candidates[photoID] = append(candidates[photoID], object.Key)
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(candidates))
	for id := range candidates {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	existing, err := s.repo.ExistingIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("load photo ids: %w", err)
	}

	var orphaned []string
	for _, id := range ids {
		if !existing[id] {
			orphaned = append(orphaned, candidates[id]...)
		}
	}
	removed := s.deleteObjects(ctx, orphaned)
	if removed > 0 {
		s.log.Info("media.sweep: removed orphaned objects", "count", removed)
	}
	return removed, nil
}

func (s *Service) requireUpload(ctx context.Context, familyID, userID string) error {
	role, err := s.members.GetRole(ctx, familyID, userID)
	if err != nil {
		return err
	}
	if role == "" {
		return ErrForbidden
	}
	if !familydomain.Allow(role, familydomain.ActionUpload) {
		return ErrUploadNotAllowed
	}
	return nil
}

func (s *Service) deleteObjects(ctx context.Context, keys []string) int {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		removed int
	)
	for _, key := range keys {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			if err := s.store.Delete(ctx, key); err != nil {
				s.log.InternalError("media.delete: remove object failed", err, "key", key)
				return
			}
			mu.Lock()
			removed++
			mu.Unlock()
		}(key)
	}
	wg.Wait()
	return removed
}

func originalKey(familyID, photoID, filename string) string {
	key := keyPrefix + "/" + familyID + "/" + photoID + "/original"
	if ext := extension(filename); ext != "" {
		key += "." + ext
	}
	return key
}

func extension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	ext := strings.ToLower(filename[idx+1:])
	if strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}

// photoIDFromKey validates an original key of the form
// photos/{familyId}/{photoId}/original[.ext] and returns the photo id.
func photoIDFromKey(familyID, key string) (string, error) {
	parts := strings.Split(key, "/")
	if len(parts) != 4 || parts[0] != keyPrefix || parts[1] != familyID {
		return "", ErrInvalidKey
	}
	if parts[3] != "original" && !strings.HasPrefix(parts[3], "original.") {
		return "", ErrInvalidKey
	}
	if _, err := uuid.Parse(parts[2]); err != nil {
		return "", ErrInvalidKey
	}
	return parts[2], nil
}

func photoIDFromAnyKey(key string) (string, bool) {
	parts := strings.Split(key, "/")
	if len(parts) != 4 || parts[0] != keyPrefix {
		return "", false
	}
	if _, err := uuid.Parse(parts[2]); err != nil {
		return "", false
	}
	return parts[2], true
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}

func mimeFromFormat(format string) string {
	if format == "" {
		return derivativeMIME
	}
	return "image/" + strings.ToLower(format)
}
