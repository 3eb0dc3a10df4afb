package storage

import "errors"

// CredentialKey is the slot the bearer credential lives under.
const CredentialKey = "authToken"

var ErrNoCredential = errors.New("no stored credential")

// CredentialStore is a durable single-slot holder for the bearer credential.
// Load returns ErrNoCredential when the slot is empty; Clear on an empty slot
// succeeds.
type CredentialStore interface {
	Load() (string, error)
	Save(credential string) error
	Clear() error
}
