package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/gridironlab/weekly-digest/internal/platform/logging"
	"github.com/gridironlab/weekly-digest/internal/usecase"
)

type Handler struct {
	draftService *usecase.DraftService
	batchService *usecase.BatchService
	runLogs      *usecase.RunLogService
	version      string
	logger       *logging.Logger
	validator    *validator.Validate
}

func NewHandler(
	draftService *usecase.DraftService,
	batchService *usecase.BatchService,
	runLogs *usecase.RunLogService,
	version string,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		draftService: draftService,
		batchService: batchService,
		runLogs:      runLogs,
		version:      version,
		logger:       logger,
		validator:    validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
