package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/gridironlab/weekly-digest/internal/domain/draft"
)

// DraftService is the read side of the digest store, backing the public API.
type DraftService struct {
	drafts draft.Repository
	scopes map[string]struct{}
}

func NewDraftService(drafts draft.Repository, scopes []string) *DraftService {
	known := make(map[string]struct{}, len(scopes))
	for _, scope := range scopes {
		known[scope] = struct{}{}
	}

	return &DraftService{
		drafts: drafts,
		scopes: known,
	}
}

func (s *DraftService) GetByWeek(ctx context.Context, scope string, week int) (draft.Document, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.GetByWeek")
	defer span.End()

	scope, err := s.resolveScope(scope)
	if err != nil {
		return draft.Document{}, err
	}
	if week < 1 {
		return draft.Document{}, fmt.Errorf("%w: week must be >= 1", ErrInvalidInput)
	}

	doc, exists, err := s.drafts.GetByWeek(ctx, scope, week)
	if err != nil {
		return draft.Document{}, fmt.Errorf("get draft: %w", err)
	}
	if !exists {
		return draft.Document{}, fmt.Errorf("%w: scope=%s week=%d", ErrNotFound, scope, week)
	}

	return doc, nil
}

func (s *DraftService) ListWeeks(ctx context.Context, scope string) ([]int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.ListWeeks")
	defer span.End()

	scope, err := s.resolveScope(scope)
	if err != nil {
		return nil, err
	}

	weeks, err := s.drafts.ListWeeks(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list draft weeks: %w", err)
	}

	return weeks, nil
}

// GetLatest serves the newest available draft for a scope.
func (s *DraftService) GetLatest(ctx context.Context, scope string) (draft.Document, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.GetLatest")
	defer span.End()

	scope, err := s.resolveScope(scope)
	if err != nil {
		return draft.Document{}, err
	}

	weeks, err := s.drafts.ListWeeks(ctx, scope)
	if err != nil {
		return draft.Document{}, fmt.Errorf("list draft weeks: %w", err)
	}
	if len(weeks) == 0 {
		return draft.Document{}, fmt.Errorf("%w: scope=%s has no drafts", ErrNotFound, scope)
	}

	latest := weeks[0]
	for _, week := range weeks[1:] {
		if week > latest {
			latest = week
		}
	}

	doc, exists, err := s.drafts.GetByWeek(ctx, scope, latest)
	if err != nil {
		return draft.Document{}, fmt.Errorf("get draft: %w", err)
	}
	if !exists {
		return draft.Document{}, fmt.Errorf("%w: scope=%s week=%d", ErrNotFound, scope, latest)
	}

	return doc, nil
}

func (s *DraftService) resolveScope(scope string) (string, error) {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return "", fmt.Errorf("%w: scope is required", ErrInvalidInput)
	}
	if _, ok := s.scopes[scope]; !ok {
		return "", fmt.Errorf("%w: unknown scope %q", ErrNotFound, scope)
	}

	return scope, nil
}
