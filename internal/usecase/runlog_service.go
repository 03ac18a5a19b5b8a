package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/gridironlab/weekly-digest/internal/domain/archive"
)

const (
	defaultRunLogLimit = 20
	maxRunLogLimit     = 100
)

// RunLogService exposes the generation-run audit trail kept in the archive.
type RunLogService struct {
	archiveRepo archive.Repository
}

func NewRunLogService(archiveRepo archive.Repository) *RunLogService {
	return &RunLogService{archiveRepo: archiveRepo}
}

func (s *RunLogService) ListRecent(ctx context.Context, scope string, limit int) ([]archive.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RunLogService.ListRecent")
	defer span.End()

	if s.archiveRepo == nil {
		return nil, fmt.Errorf("%w: run archive is not configured", ErrDependencyUnavailable)
	}

	scope = strings.TrimSpace(scope)
	if scope == "" {
		return nil, fmt.Errorf("%w: scope is required", ErrInvalidInput)
	}

	if limit <= 0 {
		limit = defaultRunLogLimit
	}
	if limit > maxRunLogLimit {
		limit = maxRunLogLimit
	}

	runs, err := s.archiveRepo.ListRecentRuns(ctx, scope, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent runs: %w", err)
	}

	return runs, nil
}
