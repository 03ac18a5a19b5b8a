package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gridironlab/weekly-digest/internal/domain/draft"
	"github.com/gridironlab/weekly-digest/internal/domain/opinion"
	"github.com/gridironlab/weekly-digest/internal/domain/teammeta"
	basecache "github.com/gridironlab/weekly-digest/internal/platform/cache"
)

type TeamMetaRepository struct {
	next  teammeta.Repository
	cache *basecache.Store
}

func NewTeamMetaRepository(next teammeta.Repository, cache *basecache.Store) *TeamMetaRepository {
	return &TeamMetaRepository{next: next, cache: cache}
}

func (r *TeamMetaRepository) GetByName(ctx context.Context, scope, name string) (teammeta.Meta, bool, error) {
	key := "teammeta:name:" + scope + ":" + name
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByName(ctx, scope, name)
		if err != nil {
			return nil, err
		}
		return cachedTeamMetaByName{value: item, exists: exists}, nil
	})
	if err != nil {
		return teammeta.Meta{}, false, err
	}

	cached, _ := v.(cachedTeamMetaByName)
	return cached.value, cached.exists, nil
}

type cachedTeamMetaByName struct {
	value  teammeta.Meta
	exists bool
}

// DraftRepository caches reads; a successful save drops every cached entry
// for the written scope so readers never see a stale week list.
type DraftRepository struct {
	next  draft.Repository
	cache *basecache.Store
}

func NewDraftRepository(next draft.Repository, cache *basecache.Store) *DraftRepository {
	return &DraftRepository{next: next, cache: cache}
}

func (r *DraftRepository) Save(ctx context.Context, doc draft.Document) (string, error) {
	path, err := r.next.Save(ctx, doc)
	if err != nil {
		return "", err
	}

	r.cache.DeletePrefix(ctx, "draft:"+doc.Meta.Scope+":")
	return path, nil
}

func (r *DraftRepository) GetByWeek(ctx context.Context, scope string, week int) (draft.Document, bool, error) {
	key := fmt.Sprintf("draft:%s:week:%d", scope, week)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByWeek(ctx, scope, week)
		if err != nil {
			return nil, err
		}
		return cachedDraftByWeek{value: item, exists: exists}, nil
	})
	if err != nil {
		return draft.Document{}, false, err
	}

	cached, _ := v.(cachedDraftByWeek)
	return cached.value, cached.exists, nil
}

type cachedDraftByWeek struct {
	value  draft.Document
	exists bool
}

func (r *DraftRepository) ListWeeks(ctx context.Context, scope string) ([]int, error) {
	key := "draft:" + scope + ":weeks"
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListWeeks(ctx, scope)
		if err != nil {
			return nil, err
		}
		return append([]int(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]int)
	return append([]int(nil), items...), nil
}

type OpinionRepository struct {
	next  opinion.Repository
	cache *basecache.Store
}

func NewOpinionRepository(next opinion.Repository, cache *basecache.Store) *OpinionRepository {
	return &OpinionRepository{next: next, cache: cache}
}

func (r *OpinionRepository) ListByScope(ctx context.Context, scope string, limit int) ([]opinion.Opinion, error) {
	key := "opinion:list:" + scope + ":" + strconv.Itoa(limit)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByScope(ctx, scope, limit)
		if err != nil {
			return nil, err
		}
		return append([]opinion.Opinion(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]opinion.Opinion)
	return append([]opinion.Opinion(nil), items...), nil
}
