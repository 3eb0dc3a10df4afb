//go:build integration

package integration

import (
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"hospital-dashboard/internal/model"
)

func TestNurseSeesOnlyNurseMenu(t *testing.T) {
	d := newDashboard(t)

	body := d.login(t, "nurse@example.org", "Nurse")
	info := decodeData[model.SessionInfo](t, body)
	require.True(t, info.Authenticated)
	require.Equal(t, model.RoleNurse, *info.Role)

	labels := make([]string, 0, len(info.Menu))
	for _, item := range info.Menu {
		labels = append(labels, item.Label)
	}
	require.Contains(t, labels, "Patient Management")
	require.Contains(t, labels, "Bed Management")
	require.NotContains(t, labels, "Staff Management")
	require.NotContains(t, labels, "Billing")

	resp, denied := d.call(t, http.MethodGet, "/api/v1/invoices", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "/", denied.Error.Details)

	resp, decision := d.call(t, http.MethodGet, "/api/v1/views/resolve?view=/billing", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, model.ViewDashboard, decodeData[model.ViewDecision](t, decision).Target)
}

func TestUnauthenticatedRoutesToLogin(t *testing.T) {
	d := newDashboard(t)

	resp, body := d.call(t, http.MethodGet, "/api/v1/beds", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "UNAUTHENTICATED", body.Error.Code)
	require.Equal(t, "/login", body.Error.Details)

	resp, body = d.call(t, http.MethodPost, "/api/v1/session", map[string]string{"username": "nobody@example.org", "password": "x"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.False(t, body.Success)
}

func TestRejectedCredentialEndsSessionOnce(t *testing.T) {
	d := newDashboard(t)
	d.login(t, "admin@example.org", "Admin")
	d.api.RejectAll(true)

	var wg sync.WaitGroup
	codes := make([]int, 8)
	for i := range codes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, _ := d.call(t, http.MethodGet, "/api/v1/patients", nil)
			codes[i] = resp.StatusCode
		}()
	}
	wg.Wait()

	for _, code := range codes {
		require.Equal(t, http.StatusUnauthorized, code)
	}

	resp, body := d.call(t, http.MethodGet, "/api/v1/session", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, decodeData[model.SessionInfo](t, body).Authenticated)

	_, err := d.store.Load()
	require.Error(t, err)
}

func TestLogoutIsIdempotent(t *testing.T) {
	d := newDashboard(t)
	d.login(t, "doc@example.org", "Doctor")

	for range 2 {
		resp, _ := d.call(t, http.MethodDelete, "/api/v1/session", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, _ := d.call(t, http.MethodGet, "/api/v1/appointments", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
