package jwtmanager

import (
	"fmt"
	"strings"
	"telemed-service/internal/app/config"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/pkg/exceptions"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

const statusTokenAudience = "onboarding-status"

// JWTManager signs and verifies the opaque tokens handed to self-signup callers
// so they can poll their onboarding status.
type JWTManager struct {
	log    *zap.Logger
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type statusClaims struct {
	jwt.RegisteredClaims
}

func NewJWTManager(cfg *config.InternalConfig, log *zap.Logger) (contracts.StatusTokenManager, error) {
	secret := strings.TrimSpace(cfg.JWT.Secret)
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	ttl := time.Duration(cfg.JWT.StatusTokenExpTimeInHour) * time.Hour
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	return &JWTManager{
		log:    log,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// CreateStatusToken returns an HS256 token whose subject is the saga id.
func (j *JWTManager) CreateStatusToken(sagaID string) (string, error) {
	if strings.TrimSpace(sagaID) == "" {
		return "", exceptions.ErrTokenSign(fmt.Errorf("saga id is required"))
	}

	now := j.now().UTC()
	claims := statusClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sagaID,
			Audience:  jwt.ClaimStrings{statusTokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		j.log.Error("JWTManager.CreateStatusToken error signing token", zap.Error(err))
		return "", exceptions.ErrTokenSign(err)
	}
	return signed, nil
}

// ParseStatusToken validates signature, expiry and audience and returns the saga id.
func (j *JWTManager) ParseStatusToken(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", exceptions.ErrInvalidStatusToken(fmt.Errorf("token is required"))
	}

	claims := &statusClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil || !parsed.Valid {
		j.log.Info("JWTManager.ParseStatusToken rejected token", zap.Error(err))
		return "", exceptions.ErrInvalidStatusToken(err)
	}

	if !claims.VerifyAudience(statusTokenAudience, true) || claims.Subject == "" {
		return "", exceptions.ErrInvalidStatusToken(fmt.Errorf("token audience or subject mismatch"))
	}
	return claims.Subject, nil
}
