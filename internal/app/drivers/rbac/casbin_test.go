package rbac

import (
	"testing"

	"github.com/casbin/casbin/v2"
	"github.com/stretchr/testify/assert"
)

func TestRBACPolicy(t *testing.T) {
	enforcer, err := casbin.NewEnforcer("../../../../"+DefaultModelPath, "../../../../"+DefaultPolicyPath)
	if err != nil {
		t.Skipf("Skipping test due to missing RBAC files: %v", err)
		return
	}

	t.Run("Superadmin reaches every route", func(t *testing.T) {
		for _, tc := range []struct{ method, path string }{
			{"POST", "/api/v1/admin/criar-usuario-completo"},
			{"POST", "/api/v1/admin/onboarding/11122233344/resume"},
			{"GET", "/api/v1/admin/onboarding/11122233344"},
			{"POST", "/api/v1/admin/planos"},
			{"POST", "/api/v1/agendamentos"},
			{"DELETE", "/api/v1/agendamentos/apt-1"},
		} {
			allowed, err := enforcer.Enforce("superadmin", tc.method, tc.path)
			assert.NoError(t, err)
			assert.True(t, allowed, "superadmin should be able to %s %s", tc.method, tc.path)
		}
	})

	t.Run("Subscriber books and manages its appointments", func(t *testing.T) {
		for _, tc := range []struct{ method, path string }{
			{"POST", "/api/v1/agendamentos"},
			{"GET", "/api/v1/agendamentos"},
			{"GET", "/api/v1/agendamentos/disponibilidade"},
			{"GET", "/api/v1/agendamentos/encaminhamentos"},
			{"DELETE", "/api/v1/agendamentos/apt-1"},
			{"POST", "/api/v1/agendamentos/imediato"},
			{"GET", "/api/v1/agendamentos/imediato/req-1"},
			{"DELETE", "/api/v1/agendamentos/imediato/req-1"},
		} {
			allowed, err := enforcer.Enforce("subscriber", tc.method, tc.path)
			assert.NoError(t, err)
			assert.True(t, allowed, "subscriber should be able to %s %s", tc.method, tc.path)
		}
	})

	t.Run("Subscriber stays out of the back office", func(t *testing.T) {
		for _, tc := range []struct{ method, path string }{
			{"POST", "/api/v1/admin/criar-usuario-completo"},
			{"POST", "/api/v1/admin/planos"},
			{"GET", "/api/v1/admin/onboarding/11122233344"},
			{"PUT", "/api/v1/agendamentos/apt-1"},
			{"DELETE", "/api/v1/agendamentos"},
		} {
			allowed, err := enforcer.Enforce("subscriber", tc.method, tc.path)
			assert.NoError(t, err)
			assert.False(t, allowed, "subscriber should not be able to %s %s", tc.method, tc.path)
		}
	})

	t.Run("Guest has no grants", func(t *testing.T) {
		allowed, err := enforcer.Enforce("guest", "GET", "/api/v1/agendamentos")
		assert.NoError(t, err)
		assert.False(t, allowed)
	})
}
