package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gridironlab/weekly-digest/internal/usecase"
)

type digestWeeksDTO struct {
	Scope  string `json:"scope"`
	Weeks  []int  `json:"weeks"`
	Latest int    `json:"latest,omitempty"`
}

func (h *Handler) ListDigestWeeks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDigestWeeks")
	defer span.End()

	scope := r.PathValue("scope")
	weeks, err := h.draftService.ListWeeks(ctx, scope)
	if err != nil {
		h.logger.WarnContext(ctx, "list digest weeks failed", "scope", scope, "error", err)
		writeError(w, err)
		return
	}

	dto := digestWeeksDTO{
		Scope: strings.TrimSpace(scope),
		Weeks: make([]int, 0, len(weeks)),
	}
	dto.Weeks = append(dto.Weeks, weeks...)
	if len(weeks) > 0 {
		dto.Latest = weeks[len(weeks)-1]
	}

	writeSuccess(w, http.StatusOK, dto)
}

func (h *Handler) GetDigestByWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDigestByWeek")
	defer span.End()

	scope := r.PathValue("scope")
	week, err := parseWeekPathValue(r.PathValue("week"))
	if err != nil {
		writeError(w, err)
		return
	}

	doc, err := h.draftService.GetByWeek(ctx, scope, week)
	if err != nil {
		h.logger.WarnContext(ctx, "get digest failed", "scope", scope, "week", week, "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, doc)
}

func (h *Handler) GetLatestDigest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLatestDigest")
	defer span.End()

	scope := r.PathValue("scope")
	doc, err := h.draftService.GetLatest(ctx, scope)
	if err != nil {
		h.logger.WarnContext(ctx, "get latest digest failed", "scope", scope, "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, doc)
}

func parseWeekPathValue(raw string) (int, error) {
	week, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: week must be a number, got %q", usecase.ErrInvalidInput, raw)
	}
	return week, nil
}
