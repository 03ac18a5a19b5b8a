package memory

import (
	"context"
	"testing"

	"github.com/gridironlab/weekly-digest/internal/domain/opinion"
)

func TestOpinionRepository_ListByScope(t *testing.T) {
	t.Parallel()

	repo := NewOpinionRepository([]opinion.Opinion{
		{Scope: "college", Text: "first take"},
		{Scope: "college", Text: "second take"},
		{Scope: "college", Text: "third take"},
		{Scope: "pro", Text: "other scope"},
	})
	ctx := context.Background()

	all, err := repo.ListByScope(ctx, "college", 0)
	if err != nil {
		t.Fatalf("ListByScope error: %v", err)
	}
	if len(all) != 3 || all[0].Text != "first take" || all[2].Text != "third take" {
		t.Fatalf("unexpected opinions: %+v", all)
	}

	limited, err := repo.ListByScope(ctx, "college", 2)
	if err != nil {
		t.Fatalf("ListByScope error: %v", err)
	}
	if len(limited) != 2 || limited[1].Text != "second take" {
		t.Fatalf("unexpected limited opinions: %+v", limited)
	}

	empty, err := repo.ListByScope(ctx, "unknown", 5)
	if err != nil {
		t.Fatalf("ListByScope error: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no opinions for unknown scope, got %+v", empty)
	}
}

func TestOpinionRepository_SeedCoversDefaultScope(t *testing.T) {
	t.Parallel()

	repo := NewOpinionRepository(SeedOpinions())

	got, err := repo.ListByScope(context.Background(), ScopeCollege, 0)
	if err != nil {
		t.Fatalf("ListByScope error: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected seeded opinions for the college scope")
	}
}
