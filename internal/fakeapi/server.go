// Package fakeapi is an in-process stand-in for the hospital API used by
// tests. It keeps the API's wire format and its server-side rules: bearer
// checks on every call, role checks on writes, one bed per patient, and
// stock-checked dispensation committed together with the decrement.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"hospital-dashboard/internal/model"
)

const Secret = "fake-hospital-secret"

type account struct {
	password string
	role     string
	staffID  int64
}

type Server struct {
	mu sync.Mutex

	accounts      map[string]account
	patients      map[int64]model.Patient
	staff         map[int64]model.Staff
	roles         map[int64]model.StaffRole
	appointments  map[int64]model.Appointment
	beds          map[int64]model.Bed
	medicines     map[int64]model.Medicine
	dispensations []model.Dispensation
	invoices      map[int64]model.Invoice
	nextID        int64

	rejectAll    bool
	failStatus   int
	failNext     int
	beforeMutate func(r *http.Request)
	requests     atomic.Int64
	unauthorized atomic.Int64

	router chi.Router
}

func New() *Server {
	s := &Server{
		accounts:     map[string]account{},
		patients:     map[int64]model.Patient{},
		staff:        map[int64]model.Staff{},
		roles:        map[int64]model.StaffRole{},
		appointments: map[int64]model.Appointment{},
		beds:         map[int64]model.Bed{},
		medicines:    map[int64]model.Medicine{},
		invoices:     map[int64]model.Invoice{},
	}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)

		s.mu.Lock()
		if s.failNext > 0 {
			s.failNext--
			status := s.failStatus
			s.mu.Unlock()
			writeDetail(w, status, "injected failure")
			return
		}
		s.mu.Unlock()

		s.router.ServeHTTP(w, r)
	})
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/token", s.token)

	r.Group(func(authed chi.Router) {
		authed.Use(s.requireBearer)

		authed.Get("/patients/", s.listPatients)
		authed.Post("/patients/", s.createPatient)
		authed.Put("/patients/{id}", s.updatePatient)
		authed.Delete("/patients/{id}", s.deletePatient)

		authed.With(s.requireRole("Admin")).Get("/staff/", s.listStaff)
		authed.With(s.requireRole("Admin")).Post("/staff/", s.createStaff)
		authed.With(s.requireRole("Admin")).Put("/staff/{id}", s.updateStaff)
		authed.With(s.requireRole("Admin")).Delete("/staff/{id}", s.deleteStaff)

		authed.Get("/roles/", s.listRoles)
		authed.With(s.requireRole("Admin")).Post("/roles/", s.createRole)
		authed.With(s.requireRole("Admin")).Put("/roles/{id}", s.updateRole)
		authed.With(s.requireRole("Admin")).Delete("/roles/{id}", s.deleteRole)

		authed.Get("/appointments/", s.listAppointments)
		authed.Post("/appointments/", s.createAppointment)
		authed.Put("/appointments/{id}", s.updateAppointment)
		authed.Delete("/appointments/{id}", s.deleteAppointment)

		authed.Get("/beds/", s.listBeds)
		authed.Post("/beds/", s.createBed)
		authed.Put("/beds/{id}", s.updateBed)
		authed.Delete("/beds/{id}", s.deleteBed)

		authed.Get("/medicines/", s.listMedicines)
		authed.With(s.requireRole("Admin", "Pharmacist")).Post("/medicines/", s.createMedicine)
		authed.With(s.requireRole("Admin", "Pharmacist")).Put("/medicines/{id}", s.updateMedicine)
		authed.With(s.requireRole("Admin", "Pharmacist")).Post("/medicines/{id}/restock", s.restockMedicine)
		authed.With(s.requireRole("Admin")).Delete("/medicines/{id}", s.deleteMedicine)

		authed.With(s.requireRole("Admin", "Doctor", "Pharmacist")).Get("/dispensations/", s.listDispensations)
		authed.With(s.requireRole("Admin", "Doctor", "Pharmacist")).Post("/dispensations/", s.createDispensation)

		authed.With(s.requireRole("Admin")).Get("/invoices/", s.listInvoices)
		authed.With(s.requireRole("Admin")).Post("/invoices/", s.createInvoice)
		authed.With(s.requireRole("Admin")).Put("/invoices/{id}/status", s.updateInvoiceStatus)
	})

	return r
}

// AddAccount registers a staff login. The email is the token subject.
func (s *Server) AddAccount(email string, password string, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.staff[s.nextID] = model.Staff{ID: s.nextID, Email: email, FirstName: email}
	s.accounts[email] = account{password: password, role: role, staffID: s.nextID}
}

// Token mints a valid credential for a registered account.
func (s *Server) Token(email string) string {
	s.mu.Lock()
	acct := s.accounts[email]
	s.mu.Unlock()

	token, err := MintToken(Secret, email, acct.role, time.Hour)
	if err != nil {
		panic(err)
	}
	return token
}

// RejectAll makes every authenticated call answer 401, as after a key
// rotation or server-side expiry.
func (s *Server) RejectAll(reject bool) {
	s.mu.Lock()
	s.rejectAll = reject
	s.mu.Unlock()
}

// FailNext answers the next n calls with status before routing them.
func (s *Server) FailNext(n int, status int) {
	s.mu.Lock()
	s.failNext = n
	s.failStatus = status
	s.mu.Unlock()
}

// BeforeMutate runs hook (outside the lock) ahead of every bed or
// dispensation write, letting tests interleave a competing client.
func (s *Server) BeforeMutate(hook func(r *http.Request)) {
	s.mu.Lock()
	s.beforeMutate = hook
	s.mu.Unlock()
}

func (s *Server) Requests() int64 { return s.requests.Load() }

func (s *Server) Unauthorized() int64 { return s.unauthorized.Load() }

func (s *Server) SeedPatient(first string, last string) model.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	p := model.Patient{ID: s.nextID, FirstName: first, LastName: last, DateOfBirth: "1980-01-01", Email: strings.ToLower(first) + "@example.org"}
	s.patients[p.ID] = p
	return p
}

func (s *Server) SeedBed(room string, bed string) model.Bed {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	b := model.Bed{ID: s.nextID, RoomNumber: room, BedNumber: bed}
	s.beds[b.ID] = b
	return b
}

func (s *Server) SeedMedicine(name string, stock int, price float64) model.Medicine {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	m := model.Medicine{ID: s.nextID, Name: name, Manufacturer: "Acme", StockQuantity: stock, UnitPrice: price}
	s.medicines[m.ID] = m
	return m
}

func (s *Server) SeedInvoice(patientID int64, amount float64) model.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	inv := model.Invoice{ID: s.nextID, PatientID: patientID, Amount: amount, Description: "stay", Status: model.InvoiceUnpaid, DateIssued: model.Timestamp{Time: time.Now().UTC()}}
	s.invoices[inv.ID] = inv
	return inv
}

// AssignDirect occupies a bed without going through HTTP, standing in for
// another dashboard that got there first.
func (s *Server) AssignDirect(bedID int64, patientID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.beds[bedID]
	pid := patientID
	b.IsOccupied = true
	b.PatientID = &pid
	s.beds[bedID] = b
}

func (s *Server) Bed(id int64) model.Bed {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bedView(s.beds[id])
}

func (s *Server) Medicine(id int64) model.Medicine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.medicines[id]
}

func (s *Server) Invoice(id int64) model.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invoices[id]
}

func (s *Server) Dispensations() []model.Dispensation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Dispensation, len(s.dispensations))
	copy(out, s.dispensations)
	return out
}

type principalKey struct{}

func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid form")
		return
	}

	email := r.PostForm.Get("username")
	s.mu.Lock()
	acct, ok := s.accounts[email]
	s.mu.Unlock()
	if !ok || acct.password != r.PostForm.Get("password") {
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	token, err := MintToken(Secret, email, acct.role, 30*time.Minute)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, model.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		s.mu.Lock()
		reject := s.rejectAll
		s.mu.Unlock()

		if reject || !strings.HasPrefix(header, "Bearer ") {
			s.unauthorized.Add(1)
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(*jwt.Token) (interface{}, error) {
			return []byte(Secret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil {
			s.unauthorized.Add(1)
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		email, _ := claims["sub"].(string)
		s.mu.Lock()
		acct, ok := s.accounts[email]
		s.mu.Unlock()
		if !ok {
			s.unauthorized.Add(1)
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), acct)))
	})
}

func (s *Server) requireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			acct := principal(r.Context())
			for _, role := range roles {
				if acct.role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeDetail(w, http.StatusForbidden, "The user does not have privileges to perform this action.")
		})
	}
}

func (s *Server) runBeforeMutate(r *http.Request) {
	s.mu.Lock()
	hook := s.beforeMutate
	s.mu.Unlock()
	if hook != nil {
		hook(r)
	}
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
