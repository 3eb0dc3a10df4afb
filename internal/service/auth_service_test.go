package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"hospital-dashboard/internal/model"
	"hospital-dashboard/pkg/apierror"
)

func TestAuthService(t *testing.T) {
	t.Parallel()

	t.Run("login establishes the session and menu", func(t *testing.T) {
		f := newFixture(t)
		f.api.AddAccount("nurse@example.org", "secret", "Nurse")

		info, err := f.auth.Login(context.Background(), "nurse@example.org", "secret")
		require.NoError(t, err)
		require.True(t, info.Authenticated)
		require.Equal(t, model.RoleNurse, *info.Role)
		require.NotNil(t, info.ExpiresAt)

		targets := make([]model.View, 0, len(info.Menu))
		for _, item := range info.Menu {
			targets = append(targets, item.Target)
		}
		require.Equal(t, []model.View{model.ViewDashboard, model.ViewPatients, model.ViewBeds}, targets)
	})

	t.Run("wrong password leaves the current session", func(t *testing.T) {
		f := newFixture(t)
		f.loginAs(t, "admin@example.org", "Admin")

		_, err := f.auth.Login(context.Background(), "admin@example.org", "wrong")
		require.True(t, apierror.IsUnauthenticated(err))
		require.True(t, f.session.Authenticated())
	})

	t.Run("empty form is rejected locally", func(t *testing.T) {
		f := newFixture(t)
		before := f.api.Requests()

		_, err := f.auth.Login(context.Background(), " ", "")
		require.True(t, apierror.Is(err, apierror.CodeBadRequest))
		require.Equal(t, before, f.api.Requests())
	})

	t.Run("logout is idempotent", func(t *testing.T) {
		f := newFixture(t)
		f.loginAs(t, "doc@example.org", "Doctor")

		require.NoError(t, f.auth.Logout())
		require.NoError(t, f.auth.Logout())

		info := f.auth.Current()
		require.False(t, info.Authenticated)
		require.Empty(t, info.Menu)
	})
}
