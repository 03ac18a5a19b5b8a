package httpapi

import (
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/gridironlab/weekly-digest/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "weekly-digest"
)

// Responses follow the Google JSON style guide envelope: success carries
// data, failure carries error with a machine-readable reason per item.
type apiEnvelope struct {
	APIVersion string        `json:"apiVersion"`
	Data       any           `json:"data,omitempty"`
	Error      *apiErrorBody `json:"error,omitempty"`
}

type apiErrorBody struct {
	Code    int              `json:"code"`
	Message string           `json:"message"`
	Status  string           `json:"status"`
	Errors  []apiErrorDetail `json:"errors,omitempty"`
}

type apiErrorDetail struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

// errorMappings is checked in order; the first sentinel that matches wins.
var errorMappings = []struct {
	sentinel error
	mapped   mappedError
}{
	{usecase.ErrInvalidInput, mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}},
	{usecase.ErrNotFound, mappedError{http.StatusNotFound, "notFound", "NOT_FOUND"}},
	{usecase.ErrUnauthorized, mappedError{http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"}},
	// A run with no eligible games is a content problem, not a transport
	// one: the caller's week has nothing worth publishing yet.
	{usecase.ErrNoEligibleGames, mappedError{http.StatusUnprocessableEntity, "noEligibleGames", "FAILED_PRECONDITION"}},
	{usecase.ErrEmptyUpstreamData, mappedError{http.StatusBadGateway, "upstreamUnavailable", "UNAVAILABLE"}},
	{usecase.ErrUpstreamUnavailable, mappedError{http.StatusBadGateway, "upstreamUnavailable", "UNAVAILABLE"}},
	{usecase.ErrDependencyUnavailable, mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}},
}

var internalMapping = mappedError{http.StatusInternalServerError, "internalError", "INTERNAL"}

func mapError(err error) mappedError {
	for _, entry := range errorMappings {
		if errors.Is(err, entry.sentinel) {
			return entry.mapped
		}
	}
	return internalMapping
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, apiEnvelope{APIVersion: googleAPIVersion, Data: data})
}

func writeError(w http.ResponseWriter, err error) {
	mapped := mapError(err)
	writeJSON(w, mapped.HTTPStatus, errorEnvelope(mapped, err.Error()))
}

// writeInternalError hides the failure detail from the caller; the panic or
// error has already been logged with full context.
func writeInternalError(w http.ResponseWriter) {
	writeJSON(w, internalMapping.HTTPStatus, errorEnvelope(internalMapping, "internal server error"))
}

func errorEnvelope(mapped mappedError, message string) apiEnvelope {
	detail := apiErrorDetail{Domain: errorDomain, Reason: mapped.Reason, Message: message}
	return apiEnvelope{
		APIVersion: googleAPIVersion,
		Error: &apiErrorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors:  []apiErrorDetail{detail},
		},
	}
}
