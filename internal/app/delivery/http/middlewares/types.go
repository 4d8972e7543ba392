package middlewares

import (
	"net/http"
	"telemed-service/internal/app/config"
	"telemed-service/internal/app/models"
	"time"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

const publicBlockTime = 5 * time.Minute

// SessionResolver returns the verified session of the caller, or nil when the
// request carries none.
type SessionResolver func(w http.ResponseWriter, r *http.Request) (*models.Session, error)

type Middlewares struct {
	Log             *zap.Logger
	InternalConfig  *config.InternalConfig
	Enforcer        *casbin.Enforcer
	ResolveSession  SessionResolver
	PublicRateLimit *RateLimiter
}

func NewMiddlewares(logger *zap.Logger, internalConfig *config.InternalConfig, enforcer *casbin.Enforcer) *Middlewares {
	return &Middlewares{
		Log:             logger,
		InternalConfig:  internalConfig,
		Enforcer:        enforcer,
		ResolveSession:  supertokensSession,
		PublicRateLimit: NewRateLimiter(logger, internalConfig.App.MaxRequests, time.Duration(internalConfig.App.MaxTimeRequestsPerSeconds)*time.Second, publicBlockTime),
	}
}
