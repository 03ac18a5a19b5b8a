package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/gridironlab/weekly-digest/internal/domain/archive"
	"github.com/gridironlab/weekly-digest/internal/usecase"
)

type generateDigestsRequest struct {
	Season     int      `json:"season" validate:"required,min=1"`
	Week       int      `json:"week" validate:"required,min=1"`
	Scopes     []string `json:"scopes" validate:"omitempty,dive,required"`
	MaxWorkers int      `json:"max_workers" validate:"omitempty,min=1,max=32"`
}

type generationRunDTO struct {
	ID         string `json:"id"`
	Scope      string `json:"scope"`
	Season     int    `json:"season"`
	Week       int    `json:"week"`
	Status     string `json:"status"`
	RawGames   int    `json:"raw_games"`
	TopGames   int    `json:"top_games"`
	UsedStub   bool   `json:"used_stub"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
	StartedAt  string `json:"started_at"`
}

func (h *Handler) GenerateDigests(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateDigests")
	defer span.End()

	req, err := decodeGenerateDigestsRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(w, err)
		return
	}

	caller, _ := jobCallerFromContext(ctx)
	h.logger.InfoContext(ctx, "digest generation requested",
		"season", req.Season, "week", req.Week, "scopes", req.Scopes,
		"client_ip", caller.IP, "country", caller.Country,
	)

	result, err := h.batchService.GenerateAll(ctx, usecase.BatchInput{
		Scopes:     req.Scopes,
		Season:     req.Season,
		Week:       req.Week,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "digest generation failed",
			"season", req.Season, "week", req.Week, "error", err)
		writeError(w, err)
		return
	}

	// Per-scope failures ride along in the task list. Only a batch with no
	// successes at all is reported as an error response.
	if result.SuccessCount == 0 && result.FailedCount > 0 {
		writeError(w, result.FirstFailure())
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

func (h *Handler) ListGenerationRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGenerationRuns")
	defer span.End()

	scope := r.URL.Query().Get("scope")
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, fmt.Errorf("%w: limit must be a number, got %q", usecase.ErrInvalidInput, raw))
			return
		}
		limit = parsed
	}

	runs, err := h.runLogs.ListRecent(ctx, scope, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list generation runs failed", "scope", scope, "error", err)
		writeError(w, err)
		return
	}

	items := make([]generationRunDTO, 0, len(runs))
	for _, run := range runs {
		items = append(items, runToDTO(run))
	}

	writeSuccess(w, http.StatusOK, items)
}

func decodeGenerateDigestsRequest(r *http.Request) (generateDigestsRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req generateDigestsRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return generateDigestsRequest{}, nil
		}
		return generateDigestsRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

func runToDTO(run archive.Run) generationRunDTO {
	return generationRunDTO{
		ID:         run.ID,
		Scope:      run.Scope,
		Season:     run.Season,
		Week:       run.Week,
		Status:     run.Status,
		RawGames:   run.RawGames,
		TopGames:   run.TopGames,
		UsedStub:   run.UsedStub,
		DurationMs: run.DurationMS,
		Error:      run.ErrorText,
		StartedAt:  run.StartedAt.UTC().Format(time.RFC3339),
	}
}
