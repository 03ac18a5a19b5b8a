package memory

import (
	"context"
	"sync"

	"github.com/gridironlab/weekly-digest/internal/domain/opinion"
)

type OpinionRepository struct {
	mu              sync.RWMutex
	opinionsByScope map[string][]opinion.Opinion
}

func NewOpinionRepository(opinions []opinion.Opinion) *OpinionRepository {
	opinionsByScope := make(map[string][]opinion.Opinion)
	for _, item := range opinions {
		opinionsByScope[item.Scope] = append(opinionsByScope[item.Scope], item)
	}

	return &OpinionRepository{opinionsByScope: opinionsByScope}
}

func (r *OpinionRepository) ListByScope(_ context.Context, scope string, limit int) ([]opinion.Opinion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opinions := r.opinionsByScope[scope]
	if limit > 0 && limit < len(opinions) {
		opinions = opinions[:limit]
	}

	out := make([]opinion.Opinion, 0, len(opinions))
	out = append(out, opinions...)

	return out, nil
}
