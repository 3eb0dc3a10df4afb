package model

// View identifies a dashboard page by its route.
type View string

const (
	ViewLogin        View = "/login"
	ViewDashboard    View = "/"
	ViewPatients     View = "/patients"
	ViewStaff        View = "/staff"
	ViewRoles        View = "/roles"
	ViewAppointments View = "/appointments"
	ViewBeds         View = "/beds"
	ViewBilling      View = "/billing"
	ViewPharmacy     View = "/pharmacy"
)

type MenuItem struct {
	Label  string `json:"label"`
	Target View   `json:"target"`
	Roles  []Role `json:"roles"`
}

// Allows reports whether role is listed on the item.
func (m MenuItem) Allows(role Role) bool {
	for _, allowed := range m.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}
