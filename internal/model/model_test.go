package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, role := range Roles {
		parsed, ok := ParseRole(role.String())
		require.True(t, ok)
		require.Equal(t, role, parsed)
		require.True(t, parsed.Valid())
	}

	for _, raw := range []string{"Janitor", " NURSE ", "admin", "Admin ", ""} {
		parsed, ok := ParseRole(raw)
		require.False(t, ok, raw)
		require.Equal(t, RoleUnknown, parsed, raw)
		require.False(t, parsed.Valid())
	}
}

func TestRoleJSON(t *testing.T) {
	t.Parallel()

	encoded, err := json.Marshal(map[string]Role{"role": RolePharmacist})
	require.NoError(t, err)
	require.JSONEq(t, `{"role":"Pharmacist"}`, string(encoded))

	var decoded struct {
		Role Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"role":"Superuser"}`), &decoded))
	require.Equal(t, RoleUnknown, decoded.Role)
}

func TestTimestamp(t *testing.T) {
	t.Parallel()

	t.Run("reads zone-less values as UTC", func(t *testing.T) {
		var record Dispensation
		require.NoError(t, json.Unmarshal([]byte(`{"date_dispensed":"2024-05-01T10:00:00.123456"}`), &record))
		require.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC), record.DateDispensed.Time)
	})

	t.Run("accepts RFC 3339 and null", func(t *testing.T) {
		ts, err := ParseTimestamp("2024-05-01T10:00:00+02:00")
		require.NoError(t, err)
		require.Equal(t, 8, ts.UTC().Hour())

		var record Invoice
		require.NoError(t, json.Unmarshal([]byte(`{"date_issued":null}`), &record))
		require.True(t, record.DateIssued.IsZero())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseTimestamp("yesterday")
		require.Error(t, err)
	})
}

func TestBedState(t *testing.T) {
	t.Parallel()

	id := int64(7)
	require.Equal(t, BedVacant, Bed{}.State())
	require.True(t, Bed{}.Consistent())
	require.Equal(t, BedOccupied, Bed{IsOccupied: true, PatientID: &id}.State())
	require.True(t, Bed{IsOccupied: true, PatientID: &id}.Consistent())
	require.False(t, Bed{IsOccupied: true}.Consistent())
	require.False(t, Bed{PatientID: &id}.Consistent())
}

func TestMenuItemAllows(t *testing.T) {
	t.Parallel()

	item := MenuItem{Label: "Pharmacy", Target: ViewPharmacy, Roles: []Role{RoleAdmin, RolePharmacist}}
	require.True(t, item.Allows(RolePharmacist))
	require.False(t, item.Allows(RoleNurse))
	require.False(t, item.Allows(RoleUnknown))
}

func TestClaimExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	require.False(t, Claim{}.Expired(now))
	require.False(t, Claim{ExpiresAt: now.Add(time.Minute)}.Expired(now))
	require.True(t, Claim{ExpiresAt: now}.Expired(now))
}
