package middlewares

import (
	"context"
	"crypto/subtle"
	"net/http"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/exceptions"
	"telemed-service/internal/pkg/utils"

	"go.uber.org/zap"
)

const HeaderAPIKey = "x-api-key"

// APIKeyAuth authenticates back office callers holding the superadmin key.
// Requests without the header fall through to session authentication.
func (m *Middlewares) APIKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(HeaderAPIKey)
		if apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		if !m.validAPIKey(apiKey) {
			utils.LogSecurityEvent(m.Log, "api_key_rejected", utils.GetRequestID(r.Context()), "high",
				zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrInvalidAPIKey(nil))
			return
		}

		m.Log.Info("API Key authentication successful",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(r.Context())),
			zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
			zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			zap.String(constvars.LoggingMethodKey, r.Method),
			zap.String(constvars.LoggingUserAgentKey, r.UserAgent()),
		)

		next.ServeHTTP(w, r.WithContext(withSuperadminKey(r.Context())))
	})
}

// RequireSuperadminAPIKey rejects every request that does not carry the key.
func (m *Middlewares) RequireSuperadminAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(HeaderAPIKey)
		if apiKey == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrAPIKeyRequired(nil))
			return
		}
		if !m.validAPIKey(apiKey) {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrInvalidAPIKey(nil))
			return
		}
		next.ServeHTTP(w, r.WithContext(withSuperadminKey(r.Context())))
	})
}

func (m *Middlewares) validAPIKey(apiKey string) bool {
	expected := m.InternalConfig.App.SuperadminAPIKey
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) == 1
}

func withSuperadminKey(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, constvars.CONTEXT_API_KEY_AUTH, true)
	ctx = context.WithValue(ctx, constvars.CONTEXT_ROLES_KEY, []string{constvars.RoleSuperadmin})
	return context.WithValue(ctx, constvars.CONTEXT_UID_KEY, constvars.APIKeySuperadminUID)
}

func isAPIKeyAuthenticated(ctx context.Context) bool {
	authenticated, ok := ctx.Value(constvars.CONTEXT_API_KEY_AUTH).(bool)
	return ok && authenticated
}
