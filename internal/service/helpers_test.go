package service

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"hospital-dashboard/internal/apiclient"
	"hospital-dashboard/internal/authz"
	"hospital-dashboard/internal/event"
	"hospital-dashboard/internal/fakeapi"
	"hospital-dashboard/internal/metrics"
	"hospital-dashboard/internal/repository"
	"hospital-dashboard/internal/session"
	"hospital-dashboard/internal/storage"
)

type fixture struct {
	api      *fakeapi.Server
	session  *session.Session
	bus      *event.InMemoryBus
	metrics  *metrics.Metrics
	auth     *AuthService
	beds     *BedService
	pharmacy *PharmacyService
	billing  *BillingService
	records  *RecordsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	api := fakeapi.New()
	server := httptest.NewServer(api.Handler())
	t.Cleanup(server.Close)

	sess := session.New(storage.NewMemoryStore())
	m := metrics.New()
	client, err := apiclient.New(apiclient.Config{BaseURL: server.URL}, sess, apiclient.WithMetrics(m))
	require.NoError(t, err)

	bus := event.NewBus()
	patients := repository.NewPatientRepository(client)

	return &fixture{
		api:      api,
		session:  sess,
		bus:      bus,
		metrics:  m,
		auth:     NewAuthService(repository.NewTokenRepository(client), sess, authz.Default()),
		beds:     NewBedService(repository.NewBedRepository(client), patients, bus, sess, m),
		pharmacy: NewPharmacyService(repository.NewPharmacyRepository(client), bus, sess, m),
		billing:  NewBillingService(repository.NewInvoiceRepository(client), bus, sess),
		records:  NewRecordsService(patients, repository.NewStaffRepository(client), repository.NewAppointmentRepository(client)),
	}
}

func (f *fixture) loginAs(t *testing.T, email string, role string) {
	t.Helper()
	f.api.AddAccount(email, "secret", role)
	_, err := f.session.Login(f.api.Token(email))
	require.NoError(t, err)
}
