package middleware

import (
	"encoding/json"
	"net/http"

	"hospital-dashboard/internal/model"
	"hospital-dashboard/pkg/apierror"
)

func jsonEncode(w http.ResponseWriter, value any) error {
	return json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, err *apierror.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	_ = jsonEncode(w, model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    err.Code,
			Message: err.Message,
			Details: err.Details,
		},
	})
}
