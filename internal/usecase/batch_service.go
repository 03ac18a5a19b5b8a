package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/gridironlab/weekly-digest/internal/platform/logging"
)

const (
	batchStatusSuccess = "success"
	batchStatusFailed  = "failed"
)

type BatchInput struct {
	Scopes     []string
	Season     int
	Week       int
	MaxWorkers int
}

type BatchResult struct {
	ScopeCount   int               `json:"scope_count"`
	SuccessCount int               `json:"success_count"`
	FailedCount  int               `json:"failed_count"`
	WorkerCount  int               `json:"worker_count"`
	Tasks        []BatchTaskResult `json:"tasks"`
}

type BatchTaskResult struct {
	Scope      string `json:"scope"`
	Status     string `json:"status"`
	Path       string `json:"path,omitempty"`
	TopGames   int    `json:"top_games"`
	UsedStub   bool   `json:"used_stub"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`

	// Err keeps the original error chain for errors.Is at the call site.
	// The JSON body carries only Message.
	Err error `json:"-"`
}

// BatchService fans one generation run out across scopes. Scopes are
// independent, so failures are isolated per task and reported instead of
// aborting the batch.
type BatchService struct {
	digests       *DigestService
	defaultScopes []string
	maxWorkers    int
	logger        *logging.Logger
}

func NewBatchService(digests *DigestService, defaultScopes []string, maxWorkers int, logger *logging.Logger) *BatchService {
	return &BatchService{
		digests:       digests,
		defaultScopes: defaultScopes,
		maxWorkers:    maxWorkers,
		logger:        logger,
	}
}

func (s *BatchService) GenerateAll(ctx context.Context, input BatchInput) (BatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BatchService.GenerateAll")
	defer span.End()

	if s.digests == nil {
		return BatchResult{}, fmt.Errorf("%w: digest service is not configured", ErrDependencyUnavailable)
	}

	scopes := dedupeScopes(input.Scopes)
	if len(scopes) == 0 {
		scopes = dedupeScopes(s.defaultScopes)
	}
	if len(scopes) == 0 {
		return BatchResult{}, fmt.Errorf("%w: no scopes to generate", ErrInvalidInput)
	}

	maxWorkers := input.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = s.maxWorkers
	}
	workerCount := normalizeBatchWorkerCount(maxWorkers, len(scopes))

	result := BatchResult{
		ScopeCount:  len(scopes),
		WorkerCount: workerCount,
		Tasks:       make([]BatchTaskResult, 0, len(scopes)),
	}

	results := make(chan BatchTaskResult, len(scopes))

	var successCount atomic.Int32
	var failedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return BatchResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, scope := range scopes {
		scope := scope
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := BatchTaskResult{Scope: scope}

			_, generated, genErr := s.digests.Generate(ctx, GenerateInput{
				Scope:  scope,
				Season: input.Season,
				Week:   input.Week,
			})
			row.DurationMs = time.Since(start).Milliseconds()

			if genErr != nil {
				row.Status = batchStatusFailed
				row.Message = genErr.Error()
				row.Err = genErr
				failedCount.Add(1)
			} else {
				row.Status = batchStatusSuccess
				row.Path = generated.Path
				row.TopGames = generated.TopGames
				row.UsedStub = generated.UsedStub
				successCount.Add(1)
			}

			results <- row
		}); err != nil {
			workers.Done()
			return BatchResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}

	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].Scope < result.Tasks[j].Scope
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())

	if result.FailedCount > 0 {
		s.logger.WarnContext(ctx, "batch generation finished with failures",
			"scopes", result.ScopeCount, "failed", result.FailedCount)
	}

	return result, nil
}

// FirstFailure surfaces a representative task error. The CLI picks its exit
// code from it and the API maps it onto a response status.
func (r BatchResult) FirstFailure() error {
	for _, task := range r.Tasks {
		if task.Status != batchStatusFailed {
			continue
		}
		if task.Err != nil {
			return task.Err
		}
		return errors.New(task.Message)
	}
	return nil
}

func dedupeScopes(scopes []string) []string {
	out := make([]string, 0, len(scopes))
	seen := map[string]struct{}{}
	for _, scope := range scopes {
		scope = strings.TrimSpace(scope)
		if _, ok := seen[scope]; ok || scope == "" {
			continue
		}
		seen[scope] = struct{}{}
		out = append(out, scope)
	}
	return out
}

func normalizeBatchWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 1
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
