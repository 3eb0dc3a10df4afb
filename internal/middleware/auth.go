package middleware

import (
	"context"
	"net/http"

	"hospital-dashboard/internal/authz"
	"hospital-dashboard/internal/model"
	"hospital-dashboard/pkg/apierror"
)

type roleSource interface {
	CurrentRole() (model.Role, bool)
}

type contextKey string

const roleContextKey contextKey = "session_role"

// SessionGuard keeps the dashboard's own routes in step with the session:
// no session means the login view, a role without the view means the
// landing view. The hospital API still authorizes every call it receives.
type SessionGuard struct {
	session roleSource
	gate    *authz.Gate
}

func NewSessionGuard(session roleSource, gate *authz.Gate) *SessionGuard {
	return &SessionGuard{session: session, gate: gate}
}

func (m *SessionGuard) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := m.session.CurrentRole()
		if !ok {
			writeError(w, apierror.Unauthenticated("login required"))
			return
		}

		ctx := context.WithValue(r.Context(), roleContextKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *SessionGuard) RequireView(view model.View) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok {
				writeError(w, apierror.Unauthenticated("login required"))
				return
			}

			if !m.gate.CanAccess(role, view) {
				writeError(w, apierror.Forbidden("your role cannot open "+string(view), string(model.ViewDashboard)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RoleFromContext(ctx context.Context) (model.Role, bool) {
	role, ok := ctx.Value(roleContextKey).(model.Role)
	return role, ok
}
