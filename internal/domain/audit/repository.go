package audit

import "context"

type Repository interface {
	Insert(ctx context.Context, log *Log) error
	// ListByUser matches Filter.Action exactly.
	ListByUser(ctx context.Context, userID string, filter Filter) ([]LogView, int64, error)
	// ListByFamily covers logs of users currently in the family and matches
	// Filter.Action as a substring.
	ListByFamily(ctx context.Context, familyID string, filter Filter) ([]LogView, int64, error)
	ActionTypes(ctx context.Context) ([]string, error)
}
