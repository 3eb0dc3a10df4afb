package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hospital-dashboard/internal/model"
	"hospital-dashboard/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func writeList[T any](w http.ResponseWriter, items []T) {
	writeSuccess(w, http.StatusOK, items, &model.Meta{Total: len(items)})
}

func writeError(w http.ResponseWriter, err error) {
	writeFailure(w, err, nil)
}

// writeFailure reports err and, when the caller has it, the state the
// hospital API reported after the failed attempt.
func writeFailure(w http.ResponseWriter, err error, data any) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	} else if errors.Is(err, model.ErrMalformedCredential) {
		status = http.StatusUnauthorized
		body.Code = apierror.CodeMalformedCredential
		body.Message = "Credential could not be read"
		body.Details = string(model.ViewLogin)
	} else if errors.Is(err, model.ErrNoSession) {
		status = http.StatusUnauthorized
		body.Code = apierror.CodeUnauthenticated
		body.Message = "Login required"
		body.Details = string(model.ViewLogin)
	} else if errors.Is(err, model.ErrPatientAlreadyAssigned) {
		status = http.StatusConflict
		body.Code = apierror.CodeConflict
		body.Message = "Patient already assigned to a bed"
		body.Details = err.Error()
	} else if errors.Is(err, model.ErrInvalidTransition) {
		status = http.StatusConflict
		body.Code = apierror.CodeConflict
		body.Message = "Invalid state transition"
		body.Details = err.Error()
	} else if errors.Is(err, model.ErrInvoiceNotFound) {
		status = http.StatusNotFound
		body.Code = apierror.CodeNotFound
		body.Message = "Invoice not found"
	} else if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		body.Code = apierror.CodeBadRequest
		body.Message = "Invalid input"
		body.Details = err.Error()
	} else if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		status = http.StatusGatewayTimeout
		body.Code = "REQUEST_TIMEOUT"
		body.Message = "Request timed out"
	} else {
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Data:    data,
		Error:   body,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, into any) bool {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, apierror.BadRequest("invalid id", raw))
		return 0, false
	}
	return id, true
}
