package jwtmanager

import (
	"telemed-service/internal/app/config"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T, secret string) *JWTManager {
	t.Helper()
	manager, err := NewJWTManager(&config.InternalConfig{
		JWT: config.AppJWT{Secret: secret, StatusTokenExpTimeInHour: 1},
	}, zap.NewNop())
	require.NoError(t, err)
	return manager.(*JWTManager)
}

func TestNewJWTManager(t *testing.T) {
	_, err := NewJWTManager(&config.InternalConfig{JWT: config.AppJWT{Secret: "  "}}, zap.NewNop())
	assert.Error(t, err)
}

func TestStatusToken(t *testing.T) {
	t.Run("Round trip returns the saga id", func(t *testing.T) {
		manager := newTestManager(t, "s3cret")

		token, err := manager.CreateStatusToken("saga-1")
		require.NoError(t, err)

		sagaID, err := manager.ParseStatusToken(token)
		require.NoError(t, err)
		assert.Equal(t, "saga-1", sagaID)
	})

	t.Run("Empty saga id", func(t *testing.T) {
		_, err := newTestManager(t, "s3cret").CreateStatusToken("")
		assert.Error(t, err)
	})

	t.Run("Other secret is rejected", func(t *testing.T) {
		token, err := newTestManager(t, "one").CreateStatusToken("saga-1")
		require.NoError(t, err)

		_, err = newTestManager(t, "two").ParseStatusToken(token)
		assert.Error(t, err)
	})

	t.Run("Expired token is rejected", func(t *testing.T) {
		manager := newTestManager(t, "s3cret")
		manager.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

		token, err := manager.CreateStatusToken("saga-1")
		require.NoError(t, err)

		_, err = manager.ParseStatusToken(token)
		assert.Error(t, err)
	})

	t.Run("Foreign audience is rejected", func(t *testing.T) {
		manager := newTestManager(t, "s3cret")
		foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "saga-1",
			Audience:  jwt.ClaimStrings{"other"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}).SignedString([]byte("s3cret"))
		require.NoError(t, err)

		_, err = manager.ParseStatusToken(foreign)
		assert.Error(t, err)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := newTestManager(t, "s3cret").ParseStatusToken("not-a-token")
		assert.Error(t, err)
	})
}
