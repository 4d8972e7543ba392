package middlewares

import (
	"net/http"
	"net/http/httptest"
	"telemed-service/internal/app/config"
	"telemed-service/internal/pkg/constvars"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testAPIKey = "test-superadmin-api-key-12345"

func newTestMiddlewares() *Middlewares {
	return &Middlewares{
		Log: zap.NewNop(),
		InternalConfig: &config.InternalConfig{
			App: config.App{
				SuperadminAPIKey: testAPIKey,
			},
		},
	}
}

func TestRequireSuperadminAPIKey(t *testing.T) {
	middlewares := newTestMiddlewares()

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, isAPIKeyAuthenticated(r.Context()), "api key flag should be set")

		roles, ok := r.Context().Value(constvars.CONTEXT_ROLES_KEY).([]string)
		assert.True(t, ok, "roles should be set in context")
		assert.Equal(t, []string{constvars.RoleSuperadmin}, roles)

		uid, ok := r.Context().Value(constvars.CONTEXT_UID_KEY).(string)
		assert.True(t, ok, "uid should be set in context")
		assert.Equal(t, constvars.APIKeySuperadminUID, uid)

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	})

	t.Run("Valid API Key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/criar-usuario-completo", nil)
		req.Header.Set(HeaderAPIKey, testAPIKey)

		rr := httptest.NewRecorder()
		middlewares.RequireSuperadminAPIKey(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "success", rr.Body.String())
	})

	t.Run("Missing API Key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/criar-usuario-completo", nil)

		rr := httptest.NewRecorder()
		middlewares.RequireSuperadminAPIKey(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Invalid API Key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/criar-usuario-completo", nil)
		req.Header.Set(HeaderAPIKey, "invalid-api-key")

		rr := httptest.NewRecorder()
		middlewares.RequireSuperadminAPIKey(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Unconfigured key rejects everything", func(t *testing.T) {
		m := newTestMiddlewares()
		m.InternalConfig.App.SuperadminAPIKey = ""

		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/planos", nil)
		req.Header.Set(HeaderAPIKey, "")

		rr := httptest.NewRecorder()
		m.RequireSuperadminAPIKey(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAPIKeyAuth(t *testing.T) {
	middlewares := newTestMiddlewares()

	t.Run("No header falls through unauthenticated", func(t *testing.T) {
		called := false
		handler := middlewares.APIKeyAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			assert.False(t, isAPIKeyAuthenticated(r.Context()))
			w.WriteHeader(http.StatusOK)
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/agendamentos", nil))

		assert.True(t, called)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Valid header marks the request", func(t *testing.T) {
		handler := middlewares.APIKeyAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, isAPIKeyAuthenticated(r.Context()))
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/agendamentos", nil)
		req.Header.Set(HeaderAPIKey, testAPIKey)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Wrong header is rejected", func(t *testing.T) {
		handler := middlewares.APIKeyAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/agendamentos", nil)
		req.Header.Set(HeaderAPIKey, "nope")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
