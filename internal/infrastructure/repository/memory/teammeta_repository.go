package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/gridironlab/weekly-digest/internal/domain/teammeta"
)

type TeamMetaRepository struct {
	mu           sync.RWMutex
	metaByScope  map[string]map[string]teammeta.Meta
	foldedLookup map[string]map[string]string
}

func NewTeamMetaRepository(seed map[string]map[string]teammeta.Meta) *TeamMetaRepository {
	metaByScope := make(map[string]map[string]teammeta.Meta, len(seed))
	foldedLookup := make(map[string]map[string]string, len(seed))
	for scope, entries := range seed {
		metaByScope[scope] = make(map[string]teammeta.Meta, len(entries))
		foldedLookup[scope] = make(map[string]string, len(entries))
		for name, meta := range entries {
			metaByScope[scope][name] = meta
			foldedLookup[scope][strings.ToLower(name)] = name
		}
	}

	return &TeamMetaRepository{metaByScope: metaByScope, foldedLookup: foldedLookup}
}

func (r *TeamMetaRepository) GetByName(_ context.Context, scope, name string) (teammeta.Meta, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return teammeta.Meta{}, false, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.metaByScope[scope]
	if meta, ok := entries[name]; ok {
		return meta, true, nil
	}
	if canonical, ok := r.foldedLookup[scope][strings.ToLower(name)]; ok {
		return entries[canonical], true, nil
	}

	return teammeta.Meta{}, false, nil
}

// Upsert replaces or adds one directory entry. Used by the directory sync
// path when the external service returns fresher metadata.
func (r *TeamMetaRepository) Upsert(_ context.Context, scope, name string, meta teammeta.Meta) error {
	name = strings.TrimSpace(name)
	if scope == "" || name == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.metaByScope[scope] == nil {
		r.metaByScope[scope] = make(map[string]teammeta.Meta)
		r.foldedLookup[scope] = make(map[string]string)
	}
	r.metaByScope[scope][name] = meta
	r.foldedLookup[scope][strings.ToLower(name)] = name

	return nil
}
