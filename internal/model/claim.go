package model

import "time"

// Claim is the identity decoded from a bearer credential. It is never proof
// of anything: the hospital API re-checks the credential on every request.
type Claim struct {
	Subject   string    `json:"subject"`
	Role      Role      `json:"role"`
	RawRole   string    `json:"raw_role,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func (c Claim) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

type SessionInfo struct {
	Authenticated bool       `json:"authenticated"`
	Subject       string     `json:"subject,omitempty"`
	Role          *Role      `json:"role,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Menu          []MenuItem `json:"menu"`
}

// TokenResponse is the OAuth2 password-flow answer of the hospital API.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
