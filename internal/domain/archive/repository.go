package archive

import "context"

type Repository interface {
	InsertRun(ctx context.Context, run Run) error
	UpsertPayloads(ctx context.Context, items []Payload) error
	ListRecentRuns(ctx context.Context, scope string, limit int) ([]Run, error)
}
