package model

// Role is the closed staff role taxonomy. RoleUnknown stands for any role
// string the dashboard does not recognise and is granted nothing.
type Role uint8

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleDoctor
	RoleNurse
	RolePharmacist
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleAdmin, RoleDoctor, RoleNurse, RolePharmacist}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleDoctor:
		return "Doctor"
	case RoleNurse:
		return "Nurse"
	case RolePharmacist:
		return "Pharmacist"
	case RoleUnknown:
		return "Unknown"
	}
	return "Unknown"
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleNurse, RolePharmacist:
		return true
	case RoleUnknown:
		return false
	}
	return false
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText never fails: unrecognised names decode to RoleUnknown.
func (r *Role) UnmarshalText(text []byte) error {
	*r, _ = ParseRole(string(text))
	return nil
}

// ParseRole matches the role names issued by the hospital API exactly.
// Anything else, including a differently cased name, yields RoleUnknown and
// false.
func ParseRole(raw string) (Role, bool) {
	switch raw {
	case "Admin":
		return RoleAdmin, true
	case "Doctor":
		return RoleDoctor, true
	case "Nurse":
		return RoleNurse, true
	case "Pharmacist":
		return RolePharmacist, true
	default:
		return RoleUnknown, false
	}
}
