//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hospital-dashboard/internal/app"
	"hospital-dashboard/internal/config"
	"hospital-dashboard/internal/fakeapi"
	"hospital-dashboard/internal/storage"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Total int `json:"total"`
	} `json:"meta"`
}

type dashboard struct {
	api    *fakeapi.Server
	app    *app.App
	server *httptest.Server
	store  *storage.MemoryStore
}

func newDashboard(t *testing.T) *dashboard {
	t.Helper()

	api := fakeapi.New()
	apiServer := httptest.NewServer(api.Handler())
	t.Cleanup(apiServer.Close)

	cfg := &config.Config{
		ServerPort:         "0",
		RequestTimeout:     10 * time.Second,
		CORSOrigins:        []string{"http://localhost:3000"},
		RateLimitRPM:       10000,
		LoginRateLimitRPM:  1000,
		APIBaseURL:         apiServer.URL,
		APITimeout:         5 * time.Second,
		APIBreakerFailures: 5,
		APIBreakerTimeout:  time.Minute,
		CredentialFile:     "unused",
	}

	store := storage.NewMemoryStore()
	application, err := app.Build(cfg, store, nil)
	require.NoError(t, err)
	t.Cleanup(application.Close)

	server := httptest.NewServer(application.Handler())
	t.Cleanup(server.Close)

	return &dashboard{api: api, app: application, server: server, store: store}
}

func (d *dashboard) login(t *testing.T, email string, role string) envelope {
	t.Helper()

	d.api.AddAccount(email, "secret", role)
	resp, body := d.call(t, http.MethodPost, "/api/v1/session", map[string]string{"username": email, "password": "secret"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body.Data))
	return body
}

func (d *dashboard) call(t *testing.T, method string, path string, payload any) (*http.Response, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if payload == nil {
		reader = bytes.NewReader([]byte{})
	} else {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, d.server.URL+path, reader)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var body envelope
	if resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp, body
}

func decodeData[T any](t *testing.T, body envelope) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(body.Data, &out))
	return out
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
