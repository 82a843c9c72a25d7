package audit

import (
	"context"
	"strings"

	familydomain "family-album-go/internal/domain/family"
	"family-album-go/internal/pagination"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// QueryLogs returns the caller's own logs, newest first.
func (s *Service) QueryLogs(ctx context.Context, userID string, filter Filter) (pagination.Result[LogView], error) {
	filter = normalizeFilter(filter)
	filter.UserID = userID

	items, total, err := s.repo.ListByUser(ctx, userID, filter)
	if err != nil {
		return pagination.Result[LogView]{}, err
	}
	return pagination.NewResult(items, total, filter.Page), nil
}

// FamilyLogs returns logs of everyone currently in familyID. requesterRole is
// the caller's role in that family.
func (s *Service) FamilyLogs(ctx context.Context, familyID string, requesterRole familydomain.Role, filter Filter) (pagination.Result[LogView], error) {
	if !familydomain.Allow(requesterRole, familydomain.ActionViewFamilyAudit) {
		return pagination.Result[LogView]{}, ErrForbidden
	}
	filter = normalizeFilter(filter)

	items, total, err := s.repo.ListByFamily(ctx, familyID, filter)
	if err != nil {
		return pagination.Result[LogView]{}, err
	}
	return pagination.NewResult(items, total, filter.Page), nil
}

func (s *Service) ActionTypes(ctx context.Context) ([]string, error) {
	actions, err := s.repo.ActionTypes(ctx)
	if err != nil {
		return nil, err
	}
	if actions == nil {
		actions = []string{}
	}
	return actions, nil
}

func normalizeFilter(filter Filter) Filter {
	filter.Page = filter.Page.Normalize(defaultPageLimit, maxPageLimit)
	filter.Action = strings.TrimSpace(filter.Action)
	filter.TargetID = strings.TrimSpace(filter.TargetID)
	filter.UserID = strings.TrimSpace(filter.UserID)
	return filter
}
