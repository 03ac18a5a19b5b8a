package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gridironlab/weekly-digest/internal/usecase"
)

func TestWriteSuccess_WrapsDataInEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(rec, http.StatusCreated, map[string]int{"week": 14})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	body := decodeEnvelope(t, rec)
	if body["apiVersion"] != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	data, _ := body["data"].(map[string]any)
	if week, _ := data["week"].(float64); int(week) != 14 {
		t.Fatalf("unexpected data payload: %v", body["data"])
	}
	if _, ok := body["error"]; ok {
		t.Fatal("success responses must not carry an error object")
	}
}

func TestWriteError_CarriesReasonAndDomain(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, fmt.Errorf("%w: week must be positive", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	body := decodeEnvelope(t, rec)
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object, got %v", body)
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", errorObj["status"])
	}
	if code, _ := errorObj["code"].(float64); int(code) != http.StatusBadRequest {
		t.Fatalf("expected code 400, got %v", errorObj["code"])
	}
	items, _ := errorObj["errors"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected one error item, got %v", errorObj["errors"])
	}
	item, _ := items[0].(map[string]any)
	if item["domain"] != "weekly-digest" || item["reason"] != "invalidInput" {
		t.Fatalf("unexpected error item: %v", item)
	}
}

func TestWriteInternalError_MasksDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeInternalError(rec)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	errorObj, _ := body["error"].(map[string]any)
	if got, _ := errorObj["message"].(string); got != "internal server error" {
		t.Fatalf("expected generic message, got %v", errorObj["message"])
	}
}

func TestMapError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "invalid input", err: usecase.ErrInvalidInput, wantStatus: http.StatusBadRequest, wantCode: "INVALID_ARGUMENT"},
		{name: "not found", err: usecase.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "unauthorized", err: usecase.ErrUnauthorized, wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHENTICATED"},
		{name: "no eligible games", err: fmt.Errorf("%w: scope=college", usecase.ErrNoEligibleGames), wantStatus: http.StatusUnprocessableEntity, wantCode: "FAILED_PRECONDITION"},
		{name: "empty upstream", err: usecase.ErrEmptyUpstreamData, wantStatus: http.StatusBadGateway, wantCode: "UNAVAILABLE"},
		{name: "upstream down", err: usecase.ErrUpstreamUnavailable, wantStatus: http.StatusBadGateway, wantCode: "UNAVAILABLE"},
		{name: "dependency down", err: usecase.ErrDependencyUnavailable, wantStatus: http.StatusServiceUnavailable, wantCode: "UNAVAILABLE"},
		{name: "unknown", err: fmt.Errorf("boom"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapError(tt.err)
			if mapped.HTTPStatus != tt.wantStatus {
				t.Fatalf("status: got %d want %d", mapped.HTTPStatus, tt.wantStatus)
			}
			if mapped.Status != tt.wantCode {
				t.Fatalf("code: got %q want %q", mapped.Status, tt.wantCode)
			}
		})
	}
}
