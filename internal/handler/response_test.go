package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"hospital-dashboard/internal/model"
	"hospital-dashboard/pkg/apierror"
)

func TestWriteFailure(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"typed", apierror.Forbidden("no", "/"), http.StatusForbidden, apierror.CodeForbidden},
		{"no session", model.ErrNoSession, http.StatusUnauthorized, apierror.CodeUnauthenticated},
		{"malformed", model.ErrMalformedCredential, http.StatusUnauthorized, apierror.CodeMalformedCredential},
		{"already assigned", fmt.Errorf("%w: patient 3", model.ErrPatientAlreadyAssigned), http.StatusConflict, apierror.CodeConflict},
		{"transition", model.ErrInvalidTransition, http.StatusConflict, apierror.CodeConflict},
		{"invoice", model.ErrInvoiceNotFound, http.StatusNotFound, apierror.CodeNotFound},
		{"input", model.ErrInvalidInput, http.StatusBadRequest, apierror.CodeBadRequest},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "REQUEST_TIMEOUT"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			writeFailure(rec, tc.err, []int{1, 2})

			require.Equal(t, tc.status, rec.Code)
			var body struct {
				Success bool            `json:"success"`
				Data    []int           `json:"data"`
				Error   *model.APIError `json:"error"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			require.False(t, body.Success)
			require.Equal(t, tc.code, body.Error.Code)
			require.Equal(t, []int{1, 2}, body.Data)
		})
	}
}

func TestWriteList(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeList(rec, []string{"a", "b", "c"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"success":true,"data":["a","b","c"],"meta":{"total":3}}`, rec.Body.String())
}
