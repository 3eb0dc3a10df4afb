package model

import "strings"

type Patient struct {
	ID            int64  `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	DateOfBirth   string `json:"date_of_birth"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email"`
}

func (p Patient) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type PatientInput struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	DateOfBirth   string `json:"date_of_birth"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email"`
}

// StaffRole is a role row as stored by the hospital API. Its Name is what
// ends up in the credential's role claim.
type StaffRole struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type StaffRoleInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type Staff struct {
	ID            int64      `json:"id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Email         string     `json:"email"`
	ContactNumber string     `json:"contact_number"`
	RoleID        int64      `json:"role_id"`
	Role          *StaffRole `json:"role,omitempty"`
}

type StaffInput struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	ContactNumber string `json:"contact_number"`
	RoleID        int64  `json:"role_id"`
	Password      string `json:"password,omitempty"`
}

type Appointment struct {
	ID              int64     `json:"id"`
	PatientID       int64     `json:"patient_id"`
	DoctorName      string    `json:"doctor_name"`
	AppointmentDate Timestamp `json:"appointment_date"`
	Reason          string    `json:"reason"`
	Status          string    `json:"status"`
	Patient         *Patient  `json:"patient,omitempty"`
}

type AppointmentInput struct {
	PatientID       int64  `json:"patient_id"`
	DoctorName      string `json:"doctor_name"`
	AppointmentDate string `json:"appointment_date"`
	Reason          string `json:"reason"`
	Status          string `json:"status,omitempty"`
}

type InvoiceStatus string

const (
	InvoiceUnpaid InvoiceStatus = "Unpaid"
	InvoicePaid   InvoiceStatus = "Paid"
)

type Invoice struct {
	ID          int64         `json:"id"`
	PatientID   int64         `json:"patient_id"`
	Amount      float64       `json:"amount"`
	Description string        `json:"description"`
	Status      InvoiceStatus `json:"status"`
	DateIssued  Timestamp     `json:"date_issued"`
	Patient     *Patient      `json:"patient,omitempty"`
}

type InvoiceInput struct {
	PatientID   int64   `json:"patient_id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}
