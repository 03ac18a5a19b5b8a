package draft

import "context"

// Repository persists and serves assembled digest documents. Save returns
// the storage path of the written document.
type Repository interface {
	Save(ctx context.Context, doc Document) (string, error)
	GetByWeek(ctx context.Context, scope string, week int) (Document, bool, error)
	ListWeeks(ctx context.Context, scope string) ([]int, error)
}
