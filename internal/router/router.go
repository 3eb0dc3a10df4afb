package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hospital-dashboard/internal/config"
	"hospital-dashboard/internal/handler"
	"hospital-dashboard/internal/metrics"
	"hospital-dashboard/internal/middleware"
	"hospital-dashboard/internal/model"
)

type Handlers struct {
	Session    *handler.SessionHandler
	Navigation *handler.NavigationHandler
	Records    *handler.RecordsHandler
	Beds       *handler.BedHandler
	Billing    *handler.BillingHandler
	Pharmacy   *handler.PharmacyHandler
}

func New(cfg *config.Config, guard *middleware.SessionGuard, h Handlers, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.LoginRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Post("/session", h.Session.Login)
		api.Get("/session", h.Session.Current)
		api.Delete("/session", h.Session.Logout)

		api.Get("/menu", h.Navigation.Menu)
		api.Get("/views/resolve", h.Navigation.Resolve)

		api.Group(func(authed chi.Router) {
			authed.Use(guard.RequireSession)

			// Appointments and Pharmacy pick patients from read-only lists
			// mounted in their own groups; the full records stay behind /patients.
			authed.Route("/patients", func(pr chi.Router) {
				pr.Use(guard.RequireView(model.ViewPatients))

				pr.Get("/", h.Records.ListPatients)
				pr.Post("/", h.Records.CreatePatient)
				pr.Put("/{id}", h.Records.UpdatePatient)
				pr.Delete("/{id}", h.Records.DeletePatient)
			})

			authed.Route("/staff", func(sr chi.Router) {
				sr.Use(guard.RequireView(model.ViewStaff))

				sr.Get("/", h.Records.ListStaff)
				sr.Post("/", h.Records.CreateStaff)
				sr.Put("/{id}", h.Records.UpdateStaff)
				sr.Delete("/{id}", h.Records.DeleteStaff)
			})

			authed.Route("/roles", func(rr chi.Router) {
				rr.Use(guard.RequireView(model.ViewRoles))

				rr.Get("/", h.Records.ListRoles)
				rr.Post("/", h.Records.CreateRole)
				rr.Put("/{id}", h.Records.UpdateRole)
				rr.Delete("/{id}", h.Records.DeleteRole)
			})

			authed.Route("/appointments", func(ar chi.Router) {
				ar.Use(guard.RequireView(model.ViewAppointments))

				ar.Get("/", h.Records.ListAppointments)
				ar.Get("/patients", h.Records.ListPatients)
				ar.Post("/", h.Records.CreateAppointment)
				ar.Put("/{id}", h.Records.UpdateAppointment)
				ar.Delete("/{id}", h.Records.DeleteAppointment)
			})

			authed.Route("/beds", func(br chi.Router) {
				br.Use(guard.RequireView(model.ViewBeds))

				br.Get("/", h.Beds.List)
				br.Post("/", h.Beds.Create)
				br.Get("/candidates", h.Beds.Candidates)
				br.Post("/{id}/assign", h.Beds.Assign)
				br.Post("/{id}/discharge", h.Beds.Discharge)
				br.Delete("/{id}", h.Beds.Delete)
			})

			authed.Route("/invoices", func(ir chi.Router) {
				ir.Use(guard.RequireView(model.ViewBilling))

				ir.Get("/", h.Billing.List)
				ir.Post("/", h.Billing.Create)
				ir.Post("/{id}/pay", h.Billing.Pay)
			})

			authed.Group(func(ph chi.Router) {
				ph.Use(guard.RequireView(model.ViewPharmacy))

				ph.Get("/medicines", h.Pharmacy.Inventory)
				ph.Post("/medicines", h.Pharmacy.AddMedicine)
				ph.Put("/medicines/{id}", h.Pharmacy.UpdateMedicine)
				ph.Delete("/medicines/{id}", h.Pharmacy.DeleteMedicine)
				ph.Post("/medicines/{id}/restock", h.Pharmacy.Restock)
				ph.Get("/dispensations", h.Pharmacy.History)
				ph.Get("/dispensations/patients", h.Records.ListPatients)
				ph.Post("/dispensations", h.Pharmacy.Dispense)
			})
		})
	})

	return r
}
