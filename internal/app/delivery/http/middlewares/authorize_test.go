package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"telemed-service/internal/pkg/constvars"
	"testing"

	"github.com/casbin/casbin/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	t.Helper()
	enforcer, err := casbin.NewEnforcer("../../../../../resources/rbac_model.conf", "../../../../../resources/rbac_policy.csv")
	require.NoError(t, err)
	return enforcer
}

func TestAuthorize(t *testing.T) {
	m := newTestMiddlewares()
	m.Enforcer = newTestEnforcer(t)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		name   string
		roles  []string
		method string
		path   string
		want   int
	}{
		{"subscriber books", []string{constvars.RoleSubscriber}, http.MethodPost, "/api/v1/agendamentos", http.StatusOK},
		{"subscriber cancels", []string{constvars.RoleSubscriber}, http.MethodDelete, "/api/v1/agendamentos/abc-123", http.StatusOK},
		{"subscriber polls immediate", []string{constvars.RoleSubscriber}, http.MethodGet, "/api/v1/agendamentos/imediato/req-1", http.StatusOK},
		{"subscriber cannot onboard", []string{constvars.RoleSubscriber}, http.MethodPost, "/api/v1/admin/criar-usuario-completo", http.StatusForbidden},
		{"guest cannot book", []string{constvars.RoleGuest}, http.MethodPost, "/api/v1/agendamentos", http.StatusForbidden},
		{"superadmin onboards", []string{constvars.RoleSuperadmin}, http.MethodPost, "/api/v1/admin/criar-usuario-completo", http.StatusOK},
		{"any matching role wins", []string{constvars.RoleGuest, constvars.RoleSubscriber}, http.MethodGet, "/api/v1/agendamentos/disponibilidade", http.StatusOK},
		{"no roles", nil, http.MethodGet, "/api/v1/agendamentos", http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.roles != nil {
				req = req.WithContext(context.WithValue(req.Context(), constvars.CONTEXT_ROLES_KEY, tc.roles))
			}
			rr := httptest.NewRecorder()
			m.Authorize(ok).ServeHTTP(rr, req)
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}
