package memory

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/gridironlab/weekly-digest/internal/domain/draft"
)

// DraftRepository keeps assembled documents in memory. It backs tests and
// local runs that do not want files on disk.
type DraftRepository struct {
	mu          sync.RWMutex
	docsByScope map[string]map[int]draft.Document
}

func NewDraftRepository() *DraftRepository {
	return &DraftRepository{docsByScope: make(map[string]map[int]draft.Document)}
}

func (r *DraftRepository) Save(_ context.Context, doc draft.Document) (string, error) {
	scope := strings.TrimSpace(doc.Meta.Scope)
	if scope == "" {
		return "", fmt.Errorf("save draft: empty scope")
	}
	if doc.Meta.Week < 1 {
		return "", fmt.Errorf("save draft: invalid week %d", doc.Meta.Week)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.docsByScope[scope] == nil {
		r.docsByScope[scope] = make(map[int]draft.Document)
	}
	r.docsByScope[scope][doc.Meta.Week] = doc

	return path.Join(scope, fmt.Sprintf("week_%02d.json", doc.Meta.Week)), nil
}

func (r *DraftRepository) GetByWeek(_ context.Context, scope string, week int) (draft.Document, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docsByScope[scope][week]
	return doc, ok, nil
}

func (r *DraftRepository) ListWeeks(_ context.Context, scope string) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := r.docsByScope[scope]
	weeks := make([]int, 0, len(docs))
	for week := range docs {
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)

	return weeks, nil
}
