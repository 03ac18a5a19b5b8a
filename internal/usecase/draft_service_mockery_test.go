package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/gridironlab/weekly-digest/internal/domain/draft"
	draftmock "github.com/gridironlab/weekly-digest/internal/mocks/domain/draft"
	"github.com/stretchr/testify/mock"
)

func TestDraftService_GetLatest_FetchesNewestWeekUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), "trace_id", "trace-123")
	drafts := draftmock.NewRepository(t)

	service := NewDraftService(drafts, []string{"college", "pro"})
	want := draft.Document{Meta: draft.Meta{Scope: "college", Season: 2025, Week: 14}}

	drafts.
		On("ListWeeks", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "college").
		Return([]int{12, 14, 13}, nil).
		Once()
	drafts.
		On("GetByWeek", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "college", 14).
		Return(want, true, nil).
		Once()

	got, err := service.GetLatest(ctx, "college")
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if got.Meta.Week != want.Meta.Week {
		t.Fatalf("unexpected week: got=%d want=%d", got.Meta.Week, want.Meta.Week)
	}
}

func TestDraftService_GetByWeek_MissingDraftUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	drafts := draftmock.NewRepository(t)

	service := NewDraftService(drafts, []string{"college"})

	drafts.
		On("GetByWeek", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "college", 9).
		Return(draft.Document{}, false, nil).
		Once()

	_, err := service.GetByWeek(ctx, "college", 9)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDraftService_GetByWeek_UnknownScopeSkipsRepositoryUsingMockery(t *testing.T) {
	t.Parallel()

	drafts := draftmock.NewRepository(t)
	service := NewDraftService(drafts, []string{"college"})

	_, err := service.GetByWeek(context.Background(), "rugby", 9)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
