package fakeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hospital-dashboard/internal/model"
)

func withPrincipal(ctx context.Context, acct account) context.Context {
	return context.WithValue(ctx, principalKey{}, acct)
}

func principal(ctx context.Context) account {
	acct, _ := ctx.Value(principalKey{}).(account)
	return acct
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid id")
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]string{{"msg": "body is not valid JSON"}},
		})
		return false
	}
	return true
}

func (s *Server) bedView(b model.Bed) model.Bed {
	b.Patient = nil
	if b.PatientID != nil {
		if p, ok := s.patients[*b.PatientID]; ok {
			b.Patient = &p
		}
	}
	return b
}

// Patients

func (s *Server) listPatients(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Patient, 0, len(s.patients))
	for _, id := range sortedKeys(s.patients) {
		out = append(out, s.patients[id])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createPatient(w http.ResponseWriter, r *http.Request) {
	var in model.PatientInput
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	p := model.Patient{ID: s.nextID, FirstName: in.FirstName, LastName: in.LastName, DateOfBirth: in.DateOfBirth, ContactNumber: in.ContactNumber, Email: in.Email}
	s.patients[p.ID] = p
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updatePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in model.PatientInput
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.patients[id]; !exists {
		writeDetail(w, http.StatusNotFound, "Patient not found")
		return
	}
	p := model.Patient{ID: id, FirstName: in.FirstName, LastName: in.LastName, DateOfBirth: in.DateOfBirth, ContactNumber: in.ContactNumber, Email: in.Email}
	s.patients[id] = p
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deletePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, exists := s.patients[id]
	if !exists {
		writeDetail(w, http.StatusNotFound, "Patient not found")
		return
	}
	delete(s.patients, id)
	writeJSON(w, http.StatusOK, p)
}

// Staff and roles

func (s *Server) listStaff(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Staff, 0, len(s.staff))
	for _, id := range sortedKeys(s.staff) {
		member := s.staff[id]
		if role, ok := s.roles[member.RoleID]; ok {
			member.Role = &role
		}
		out = append(out, member)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createStaff(w http.ResponseWriter, r *http.Request) {
	var in model.StaffInput
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	member := model.Staff{ID: s.nextID, FirstName: in.FirstName, LastName: in.LastName, Email: in.Email, ContactNumber: in.ContactNumber, RoleID: in.RoleID}
	s.staff[member.ID] = member
	writeJSON(w, http.StatusOK, member)
}

func (s *Server) updateStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in model.StaffInput
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.staff[id]; !exists {
		writeDetail(w, http.StatusNotFound, "Staff member not found")
		return
	}
	member := model.Staff{ID: id, FirstName: in.FirstName, LastName: in.LastName, Email: in.Email, ContactNumber: in.ContactNumber, RoleID: in.RoleID}
	s.staff[id] = member
	writeJSON(w, http.StatusOK, member)
}

func (s *Server) deleteStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	member, exists := s.staff[id]
	if !exists {
		writeDetail(w, http.StatusNotFound, "Staff member not found")
		return
	}
	delete(s.staff, id)
	writeJSON(w, http.StatusOK, member)
}

func (s *Server) listRoles(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.StaffRole, 0, len(s.roles))
	for _, id := range sortedKeys(s.roles) {
		out = append(out, s.roles[id])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createRole(w http.ResponseWriter, r *http.Request) {
	var in model.StaffRoleInput
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.roles {
		if existing.Name == in.Name {
			writeDetail(w, http.StatusBadRequest, "Role already registered")
			return
		}
	}
	s.nextID++
	role := model.StaffRole{ID: s.nextID, Name: in.Name, Description: in.Description}
	s.roles[role.ID] = role
	writeJSON(w, http.StatusOK, role)
}

func (s *Server) updateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in model.StaffRoleInput
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.roles[id]; !exists {
		writeDetail(w, http.StatusNotFound, "Role not found")
		return
	}
	role := model.StaffRole{ID: id, Name: in.Name, Description: in.Description}
	s.roles[id] = role
	writeJSON(w, http.StatusOK, role)
}

func (s *Server) deleteRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	role, exists := s.roles[id]
	if !exists {
		writeDetail(w, http.StatusNotFound, "Role not found")
		return
	}
	delete(s.roles, id)
	writeJSON(w, http.StatusOK, role)
}

// Appointments

func (s *Server) listAppointments(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Appointment, 0, len(s.appointments))
	for _, id := range sortedKeys(s.appointments) {
		out = append(out, s.appointments[id])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) appointmentFrom(w http.ResponseWriter, id int64, in model.AppointmentInput) (model.Appointment, bool) {
	when, err := model.ParseTimestamp(in.AppointmentDate)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid appointment_date")
		return model.Appointment{}, false
	}
	patient, exists := s.patients[in.PatientID]
	if !exists {
		writeDetail(w, http.StatusNotFound, "Patient not found")
		return model.Appointment{}, false
	}
	status := in.Status
	if status == "" {
		status = "Scheduled"
	}
	return model.Appointment{ID: id, PatientID: in.PatientID, DoctorName: in.DoctorName, AppointmentDate: when, Reason: in.Reason, Status: status, Patient: &patient}, true
}

func (s *Server) createAppointment(w http.ResponseWriter, r *http.Request) {
	var in model.AppointmentInput
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	appt, ok := s.appointmentFrom(w, s.nextID+1, in)
	if !ok {
		return
	}
	s.nextID++
	s.appointments[appt.ID] = appt
	writeJSON(w, http.StatusOK, appt)
}

func (s *Server) updateAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in model.AppointmentInput
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.appointments[id]; !exists {
		writeDetail(w, http.StatusNotFound, "Appointment not found")
		return
	}
	appt, ok := s.appointmentFrom(w, id, in)
	if !ok {
		return
	}
	s.appointments[id] = appt
	writeJSON(w, http.StatusOK, appt)
}

func (s *Server) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	appt, exists := s.appointments[id]
	if !exists {
		writeDetail(w, http.StatusNotFound, "Appointment not found")
		return
	}
	delete(s.appointments, id)
	writeJSON(w, http.StatusOK, appt)
}

// Beds

func (s *Server) listBeds(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Bed, 0, len(s.beds))
	for _, id := range sortedKeys(s.beds) {
		out = append(out, s.bedView(s.beds[id]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createBed(w http.ResponseWriter, r *http.Request) {
	var in model.BedInput
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b := model.Bed{ID: s.nextID, RoomNumber: in.RoomNumber, BedNumber: in.BedNumber}
	s.beds[b.ID] = b
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) updateBed(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in model.BedUpdate
	if !decode(w, r, &in) {
		return
	}

	s.runBeforeMutate(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	b, exists := s.beds[id]
	if !exists {
		writeDetail(w, http.StatusNotFound, "Bed not found")
		return
	}

	if in.PatientID != nil {
		if _, known := s.patients[*in.PatientID]; !known {
			writeDetail(w, http.StatusNotFound, "Patient not found")
			return
		}
		for otherID, other := range s.beds {
			if otherID != id && other.PatientID != nil && *other.PatientID == *in.PatientID {
				writeDetail(w, http.StatusBadRequest, "Patient is already assigned to a bed")
				return
			}
		}
	}

	b.IsOccupied = in.IsOccupied
	b.PatientID = in.PatientID
	s.beds[id] = b
	writeJSON(w, http.StatusOK, s.bedView(b))
}

func (s *Server) deleteBed(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b, exists := s.beds[id]
	if !exists {
		writeDetail(w, http.StatusNotFound, "Bed not found")
		return
	}
	delete(s.beds, id)
	writeJSON(w, http.StatusOK, s.bedView(b))
}

// Pharmacy

func (s *Server) listMedicines(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Medicine, 0, len(s.medicines))
	for _, id := range sortedKeys(s.medicines) {
		out = append(out, s.medicines[id])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createMedicine(w http.ResponseWriter, r *http.Request) {
	var in model.MedicineInput
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	m := model.Medicine{ID: s.nextID, Name: in.Name, Manufacturer: in.Manufacturer, StockQuantity: in.StockQuantity, UnitPrice: in.UnitPrice}
	s.medicines[m.ID] = m
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) updateMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in model.MedicineUpdate
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m, exists := s.medicines[id]
	if !exists {
		writeDetail(w, http.StatusNotFound, "Medicine not found")
		return
	}
	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Manufacturer != nil {
		m.Manufacturer = *in.Manufacturer
	}
	if in.UnitPrice != nil {
		m.UnitPrice = *in.UnitPrice
	}
	s.medicines[id] = m
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) restockMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in model.Restock
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m, exists := s.medicines[id]
	if !exists {
		writeDetail(w, http.StatusNotFound, "Medicine not found")
		return
	}
	m.StockQuantity += in.QuantityAdded
	s.medicines[id] = m
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) deleteMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.medicines[id]; !exists {
		writeDetail(w, http.StatusNotFound, "Medicine not found")
		return
	}
	delete(s.medicines, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listDispensations(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Dispensation, len(s.dispensations))
	copy(out, s.dispensations)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createDispensation(w http.ResponseWriter, r *http.Request) {
	var in model.DispenseRequest
	if !decode(w, r, &in) {
		return
	}

	s.runBeforeMutate(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	if in.QuantityDispensed <= 0 {
		writeDetail(w, http.StatusUnprocessableEntity, "quantity_dispensed must be positive")
		return
	}
	patient, patientOK := s.patients[in.PatientID]
	medicine, medicineOK := s.medicines[in.MedicineID]
	if !patientOK || !medicineOK || medicine.StockQuantity < in.QuantityDispensed {
		writeDetail(w, http.StatusBadRequest, "Failed to create dispensation. Check medicine ID and stock levels.")
		return
	}

	medicine.StockQuantity -= in.QuantityDispensed
	s.medicines[medicine.ID] = medicine

	s.nextID++
	acct := principal(r.Context())
	record := model.Dispensation{
		ID:                s.nextID,
		PatientID:         in.PatientID,
		MedicineID:        in.MedicineID,
		QuantityDispensed: in.QuantityDispensed,
		Notes:             in.Notes,
		StaffID:           acct.staffID,
		DateDispensed:     model.Timestamp{Time: time.Now().UTC()},
		Patient:           &patient,
		Medicine:          &medicine,
	}
	s.dispensations = append(s.dispensations, record)
	writeJSON(w, http.StatusOK, record)
}

// Billing

func (s *Server) listInvoices(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Invoice, 0, len(s.invoices))
	for _, id := range sortedKeys(s.invoices) {
		inv := s.invoices[id]
		if p, ok := s.patients[inv.PatientID]; ok {
			inv.Patient = &p
		}
		out = append(out, inv)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createInvoice(w http.ResponseWriter, r *http.Request) {
	var in model.InvoiceInput
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[in.PatientID]; !ok {
		writeDetail(w, http.StatusNotFound, "Patient not found")
		return
	}
	s.nextID++
	inv := model.Invoice{ID: s.nextID, PatientID: in.PatientID, Amount: in.Amount, Description: in.Description, Status: model.InvoiceUnpaid, DateIssued: model.Timestamp{Time: time.Now().UTC()}}
	s.invoices[inv.ID] = inv
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) updateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in struct {
		Status model.InvoiceStatus `json:"status"`
	}
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	inv, exists := s.invoices[id]
	if !exists {
		writeDetail(w, http.StatusNotFound, "Invoice not found")
		return
	}
	inv.Status = in.Status
	s.invoices[id] = inv
	writeJSON(w, http.StatusOK, inv)
}
