package middlewares

import (
	"context"
	"net/http"
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/exceptions"
	"telemed-service/internal/pkg/utils"

	"github.com/supertokens/supertokens-golang/recipe/session"
	"github.com/supertokens/supertokens-golang/recipe/session/sessmodels"
	"go.uber.org/zap"
)

func supertokensSession(w http.ResponseWriter, r *http.Request) (*models.Session, error) {
	sessRequired := false
	sess, err := session.GetSession(r, w, &sessmodels.VerifySessionOptions{SessionRequired: &sessRequired})
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	return &models.Session{
		UserID: sess.GetUserID(),
		Roles:  rolesFromAccessTokenPayload(sess.GetAccessTokenPayload()),
	}, nil
}

// SessionRequired resolves the caller from the supertokens session and puts
// its uid and roles in the request context. Callers already authenticated by
// API key pass through.
func (m *Middlewares) SessionRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isAPIKeyAuthenticated(r.Context()) {
			next.ServeHTTP(w, r)
			return
		}

		requestID := utils.GetRequestID(r.Context())
		sess, err := m.ResolveSession(w, r)
		if err != nil || sess == nil {
			m.Log.Info("Middlewares.SessionRequired session missing",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
				zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
				zap.Error(err),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenInvalidOrExpired(err))
			return
		}

		roles := sess.Roles
		if len(roles) == 0 {
			roles = []string{constvars.RoleGuest}
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_UID_KEY, sess.UserID)
		ctx = context.WithValue(ctx, constvars.CONTEXT_ROLES_KEY, roles)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
