package model

import "errors"

var (
	// Session errors
	ErrMalformedCredential = errors.New("malformed credential")
	ErrNoSession           = errors.New("no active session")

	// Allocation errors
	ErrInvalidTransition      = errors.New("invalid state transition")
	ErrPatientAlreadyAssigned = errors.New("patient already assigned to a bed")
	ErrInvoiceNotFound        = errors.New("invoice not found")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
