// Package authz decides which dashboard views a role may see.
//
// The gate is a presentation filter. Hiding a menu item or redirecting a
// view is not access control; the hospital API authorizes every request
// against the caller's credential independently of anything decided here.
package authz

import "hospital-dashboard/internal/model"

const (
	DecisionAllow    = "allow"
	DecisionLogin    = "login"
	DecisionRedirect = "redirect"
)

var allRoles = []model.Role{model.RoleAdmin, model.RoleDoctor, model.RoleNurse, model.RolePharmacist}

// DefaultMenu is the static navigation in rendered order.
var DefaultMenu = []model.MenuItem{
	{Label: "Dashboard", Target: model.ViewDashboard, Roles: allRoles},
	{Label: "Patient Management", Target: model.ViewPatients, Roles: []model.Role{model.RoleAdmin, model.RoleNurse}},
	{Label: "Staff Management", Target: model.ViewStaff, Roles: []model.Role{model.RoleAdmin}},
	{Label: "Role Management", Target: model.ViewRoles, Roles: []model.Role{model.RoleAdmin}},
	{Label: "Appointments", Target: model.ViewAppointments, Roles: []model.Role{model.RoleAdmin, model.RoleDoctor}},
	{Label: "Bed Management", Target: model.ViewBeds, Roles: []model.Role{model.RoleAdmin, model.RoleNurse}},
	{Label: "Billing", Target: model.ViewBilling, Roles: []model.Role{model.RoleAdmin}},
	{Label: "Pharmacy", Target: model.ViewPharmacy, Roles: []model.Role{model.RoleAdmin, model.RolePharmacist}},
}

type Gate struct {
	menu    []model.MenuItem
	landing map[model.View]struct{}
}

// New builds a gate over menu. Landing views are open to every valid role
// whether or not the menu lists them.
func New(menu []model.MenuItem, landing ...model.View) *Gate {
	g := &Gate{
		menu:    make([]model.MenuItem, len(menu)),
		landing: map[model.View]struct{}{},
	}
	copy(g.menu, menu)
	for _, view := range landing {
		g.landing[view] = struct{}{}
	}
	return g
}

func Default() *Gate {
	return New(DefaultMenu, model.ViewDashboard)
}

func (g *Gate) VisibleMenu(role model.Role) []model.MenuItem {
	visible := make([]model.MenuItem, 0, len(g.menu))
	if !role.Valid() {
		return visible
	}

	for _, item := range g.menu {
		if item.Allows(role) {
			visible = append(visible, item)
		}
	}
	return visible
}

func (g *Gate) CanAccess(role model.Role, view model.View) bool {
	if !role.Valid() {
		return false
	}

	if _, ok := g.landing[view]; ok {
		return true
	}

	for _, item := range g.menu {
		if item.Target == view && item.Allows(role) {
			return true
		}
	}
	return false
}

// Resolve routes a navigation attempt. Only the unauthenticated state leads
// to the login view; a denied view falls back to the dashboard.
func (g *Gate) Resolve(role model.Role, authenticated bool, view model.View) model.ViewDecision {
	if !authenticated {
		return model.ViewDecision{View: view, Decision: DecisionLogin, Target: model.ViewLogin}
	}
	if g.CanAccess(role, view) {
		return model.ViewDecision{View: view, Decision: DecisionAllow, Target: view}
	}
	return model.ViewDecision{View: view, Decision: DecisionRedirect, Target: model.ViewDashboard}
}
