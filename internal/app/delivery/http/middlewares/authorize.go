package middlewares

import (
	"net/http"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/exceptions"
	"telemed-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// Authorize allows the request when any caller role is granted the method on
// the path by the casbin policy.
func (m *Middlewares) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := utils.GetRequestID(r.Context())
		roles := utils.GetRoles(r.Context())

		for _, role := range roles {
			allowed, err := m.Enforcer.Enforce(role, r.Method, r.URL.Path)
			if err != nil {
				m.Log.Error("Middlewares.Authorize error evaluating policy",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.String("role", role),
					zap.Error(err),
				)
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrServerProcess(err))
				return
			}
			if allowed {
				next.ServeHTTP(w, r)
				return
			}
		}

		utils.LogSecurityEvent(m.Log, "rbac_denied", requestID, "medium",
			zap.String(constvars.LoggingUIDKey, utils.GetUID(r.Context())),
			zap.Strings("roles", roles),
			zap.String(constvars.LoggingMethodKey, r.Method),
			zap.String(constvars.LoggingEndpointKey, r.URL.Path),
		)
		utils.BuildErrorResponse(m.Log, w, exceptions.ErrNotAuthorized(nil))
	})
}
