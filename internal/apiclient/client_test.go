package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hospital-dashboard/internal/fakeapi"
	"hospital-dashboard/internal/model"
	"hospital-dashboard/internal/session"
	"hospital-dashboard/internal/storage"
	"hospital-dashboard/pkg/apierror"
)

type harness struct {
	api       *fakeapi.Server
	server    *httptest.Server
	session   *session.Session
	client    *Client
	teardowns *atomic.Int32
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()

	api := fakeapi.New()
	server := httptest.NewServer(api.Handler())
	t.Cleanup(server.Close)

	teardowns := &atomic.Int32{}
	sess := session.New(storage.NewMemoryStore(), session.WithTeardownHook(func(session.TeardownReason, model.Claim) {
		teardowns.Add(1)
	}))

	cfg.BaseURL = server.URL
	client, err := New(cfg, sess)
	require.NoError(t, err)

	return &harness{api: api, server: server, session: sess, client: client, teardowns: teardowns}
}

func (h *harness) login(t *testing.T, email string, role string) {
	t.Helper()
	h.api.AddAccount(email, "secret", role)
	_, err := h.session.Login(h.api.Token(email))
	require.NoError(t, err)
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := New(Config{BaseURL: "not a url"}, session.New(storage.NewMemoryStore()))
	require.Error(t, err)

	_, err = New(Config{BaseURL: "http://api.local"}, nil)
	require.Error(t, err)
}

func TestClientAttachesCredential(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Config{})
	h.login(t, "admin@example.org", "Admin")
	h.api.SeedBed("101", "A")

	var beds []model.Bed
	require.NoError(t, h.client.Do(context.Background(), http.MethodGet, "/beds/", nil, &beds))
	require.Len(t, beds, 1)
	require.Equal(t, "101", beds[0].RoomNumber)
}

func TestClientWithoutSessionSendsNoCredential(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Config{})

	err := h.client.Do(context.Background(), http.MethodGet, "/beds/", nil, nil)
	require.True(t, apierror.IsUnauthenticated(err))
	require.Zero(t, h.teardowns.Load())
}

func TestClientRejectionTearsDownOnce(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Config{})
	h.login(t, "nurse@example.org", "Nurse")
	h.api.RejectAll(true)

	var wg sync.WaitGroup
	errs := make([]error, 20)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = h.client.Do(context.Background(), http.MethodGet, "/patients/", nil, nil)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.True(t, apierror.IsUnauthenticated(err), "got %v", err)
	}
	require.EqualValues(t, 1, h.teardowns.Load())
	require.False(t, h.session.Authenticated())
}

func TestClientLoginFailureKeepsSession(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Config{})
	h.login(t, "admin@example.org", "Admin")

	form := url.Values{"username": {"admin@example.org"}, "password": {"wrong"}}
	err := h.client.PostForm(context.Background(), "/token", form, nil)
	require.True(t, apierror.IsUnauthenticated(err))
	require.True(t, h.session.Authenticated())
	require.Zero(t, h.teardowns.Load())

	var token model.TokenResponse
	form.Set("password", "secret")
	require.NoError(t, h.client.PostForm(context.Background(), "/token", form, &token))
	require.NotEmpty(t, token.AccessToken)
	require.Equal(t, "bearer", token.TokenType)
}

func TestClientFormLoginOmitsCredential(t *testing.T) {
	t.Parallel()

	var seen atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Incorrect email or password"}`))
	}))
	t.Cleanup(server.Close)

	sess := session.New(storage.NewMemoryStore())
	token, err := fakeapi.MintToken(fakeapi.Secret, "admin@example.org", "Admin", time.Hour)
	require.NoError(t, err)
	_, err = sess.Login(token)
	require.NoError(t, err)
	client, err := New(Config{BaseURL: server.URL}, sess)
	require.NoError(t, err)

	err = client.PostForm(context.Background(), "/token", url.Values{"username": {"admin@example.org"}, "password": {"wrong"}}, nil)

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apierror.CodeUnauthenticated, apiErr.Code)
	require.Equal(t, "Incorrect email or password", apiErr.Message)
	require.Empty(t, seen.Load())
	require.True(t, sess.Authenticated())
}

func TestClientMapsErrorDetail(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Config{})
	h.login(t, "pharm@example.org", "Pharmacist")
	patient := h.api.SeedPatient("Ada", "Lovelace")
	med := h.api.SeedMedicine("Amoxicillin", 1, 2.5)

	err := h.client.Do(context.Background(), http.MethodPost, "/dispensations/", model.DispenseRequest{
		PatientID: patient.ID, MedicineID: med.ID, QuantityDispensed: 5,
	}, nil)

	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, apierror.CodeConflict, apiErr.Code)
	require.Contains(t, apiErr.Message, "stock levels")
	require.True(t, h.session.Authenticated())
}

func TestClientBreaker(t *testing.T) {
	t.Parallel()

	t.Run("opens after consecutive 5xx", func(t *testing.T) {
		h := newHarness(t, Config{BreakerFailures: 2, BreakerTimeout: time.Minute})
		h.login(t, "admin@example.org", "Admin")
		h.api.FailNext(2, http.StatusInternalServerError)

		for range 2 {
			err := h.client.Do(context.Background(), http.MethodGet, "/beds/", nil, nil)
			require.True(t, apierror.IsUpstream(err))
		}

		before := h.api.Requests()
		err := h.client.Do(context.Background(), http.MethodGet, "/beds/", nil, nil)
		var apiErr *apierror.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, http.StatusServiceUnavailable, apiErr.HTTPStatus)
		require.Equal(t, before, h.api.Requests())
	})

	t.Run("client errors do not trip it", func(t *testing.T) {
		h := newHarness(t, Config{BreakerFailures: 2, BreakerTimeout: time.Minute})
		h.login(t, "nurse@example.org", "Nurse")

		for range 5 {
			err := h.client.Do(context.Background(), http.MethodGet, "/invoices/", nil, nil)
			require.True(t, apierror.Is(err, apierror.CodeForbidden))
		}
		require.NoError(t, h.client.Do(context.Background(), http.MethodGet, "/beds/", nil, nil))
	})
}

func TestClientForwardsRequestID(t *testing.T) {
	t.Parallel()

	var seen atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.Header.Get("X-Request-ID"))
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL}, session.New(storage.NewMemoryStore()))
	require.NoError(t, err)

	ctx := ContextWithRequestID(context.Background(), "req-123")
	require.NoError(t, client.Do(ctx, http.MethodGet, "/ping", nil, nil))
	require.Equal(t, "req-123", seen.Load())
}

func TestErrorDetail(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		body string
		want string
	}{
		"string detail":     {`{"detail":"Bed not found"}`, "Bed not found"},
		"validation detail": {`{"detail":[{"msg":"field required"},{"msg":"value too small"}]}`, "field required; value too small"},
		"no detail":         {`{}`, "Not Found"},
		"not json":          {`<html>`, "Not Found"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := errorDetail(&Response{StatusCode: http.StatusNotFound, Body: []byte(tc.body)})
			require.Equal(t, tc.want, got)
		})
	}
}
