//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"hospital-dashboard/internal/model"
	"hospital-dashboard/internal/service"
)

func TestDispenseDecrementsStockAndRefusesOverdraw(t *testing.T) {
	d := newDashboard(t)
	d.login(t, "pharm@example.org", "Pharmacist")

	patient := d.api.SeedPatient("Ada", "Lovelace")
	medicine := d.api.SeedMedicine("Amoxicillin", 10, 1.25)

	resp, body := d.call(t, http.MethodPost, "/api/v1/dispensations", model.DispenseRequest{
		PatientID: patient.ID, MedicineID: medicine.ID, QuantityDispensed: 4,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	result := decodeData[service.Dispensed](t, body)
	require.NotNil(t, result.Record)
	require.Equal(t, 4, result.Record.QuantityDispensed)
	require.Len(t, result.History, 1)
	require.Equal(t, 6, result.Inventory[0].StockQuantity)

	resp, body = d.call(t, http.MethodPost, "/api/v1/dispensations", model.DispenseRequest{
		PatientID: patient.ID, MedicineID: medicine.ID, QuantityDispensed: 10,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "CONFLICT", body.Error.Code)
	require.Equal(t, 6, decodeData[service.Dispensed](t, body).Inventory[0].StockQuantity)
	require.Equal(t, 6, d.api.Medicine(medicine.ID).StockQuantity)
	require.Len(t, d.api.Dispensations(), 1)

	resp, body = d.call(t, http.MethodPost, "/api/v1/medicines/"+itoa(medicine.ID)+"/restock", model.Restock{QuantityAdded: 5})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 11, decodeData[[]model.Medicine](t, body)[0].StockQuantity)
}

func TestPharmacistPicksPatientThenDispenses(t *testing.T) {
	d := newDashboard(t)
	d.login(t, "pharm@example.org", "Pharmacist")

	d.api.SeedPatient("Ada", "Lovelace")
	medicine := d.api.SeedMedicine("Ibuprofen", 3, 0.5)

	resp, _ := d.call(t, http.MethodGet, "/api/v1/patients", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := d.call(t, http.MethodGet, "/api/v1/dispensations/patients", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	patients := decodeData[[]model.Patient](t, body)
	require.Len(t, patients, 1)
	require.Equal(t, "Ada Lovelace", patients[0].DisplayName())

	resp, body = d.call(t, http.MethodPost, "/api/v1/dispensations", model.DispenseRequest{
		PatientID: patients[0].ID, MedicineID: medicine.ID, QuantityDispensed: 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, 1, decodeData[service.Dispensed](t, body).Inventory[0].StockQuantity)
}

func TestDoctorPicksPatientForAppointment(t *testing.T) {
	d := newDashboard(t)
	d.login(t, "doc@example.org", "Doctor")
	patient := d.api.SeedPatient("Alan", "Turing")

	resp, body := d.call(t, http.MethodGet, "/api/v1/appointments/patients", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, patient.ID, decodeData[[]model.Patient](t, body)[0].ID)

	resp, _ = d.call(t, http.MethodGet, "/api/v1/dispensations/patients", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestBillingMarkPaid(t *testing.T) {
	d := newDashboard(t)
	d.login(t, "admin@example.org", "Admin")

	patient := d.api.SeedPatient("Grace", "Hopper")
	invoice := d.api.SeedInvoice(patient.ID, 120)

	resp, body := d.call(t, http.MethodPost, "/api/v1/invoices/"+itoa(invoice.ID)+"/pay", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, model.InvoicePaid, decodeData[[]model.Invoice](t, body)[0].Status)

	resp, body = d.call(t, http.MethodPost, "/api/v1/invoices/"+itoa(invoice.ID)+"/pay", nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "CONFLICT", body.Error.Code)
}
