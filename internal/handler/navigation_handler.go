package handler

import (
	"net/http"
	"strings"

	"hospital-dashboard/internal/authz"
	"hospital-dashboard/internal/model"
	"hospital-dashboard/pkg/apierror"
)

type roleSource interface {
	CurrentRole() (model.Role, bool)
}

// NavigationHandler serves the menu and view decisions that drive the
// browser's routing.
type NavigationHandler struct {
	session roleSource
	gate    *authz.Gate
}

func NewNavigationHandler(session roleSource, gate *authz.Gate) *NavigationHandler {
	return &NavigationHandler{session: session, gate: gate}
}

func (h *NavigationHandler) Menu(w http.ResponseWriter, _ *http.Request) {
	role, ok := h.session.CurrentRole()
	if !ok {
		writeList(w, []model.MenuItem{})
		return
	}
	writeList(w, h.gate.VisibleMenu(role))
}

func (h *NavigationHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	view := strings.TrimSpace(r.URL.Query().Get("view"))
	if view == "" || !strings.HasPrefix(view, "/") {
		writeError(w, apierror.BadRequest("view must be a dashboard route", view))
		return
	}

	role, authenticated := h.session.CurrentRole()
	writeSuccess(w, http.StatusOK, h.gate.Resolve(role, authenticated, model.View(view)), nil)
}
