package audit

import "context"

// Repository defines persistence for gateway exchange records
type Repository interface {
	Save(ctx context.Context, r *Record) error
	ListByVisit(ctx context.Context, visitID string, limit int) ([]*Record, error)
}
