// Package testutil holds helpers shared by the FinTrack integration tests.
package testutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/auth"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestJWTConfig is the signing configuration used by test servers
func TestJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                "fintrack-test-secret-0123456789abcdef",
		Issuer:                "fintrack-test",
		AccessTokenExpiration: time.Hour,
	}
}

// TenantToken issues an access token for tenantID with the test configuration
func TenantToken(t *testing.T, tenantID uuid.UUID) string {
	t.Helper()
	token, err := auth.NewJWTService(TestJWTConfig()).Issue(tenantID, "test", 0)
	require.NoError(t, err)
	return token.AccessToken
}

// AssertMoney compares a decoded Money against its decimal string form
func AssertMoney(t *testing.T, want string, got valueobject.Money) {
	t.Helper()
	assert.True(t, valueobject.MustMoney(want).Equals(got), "want %s, got %s", want, got)
}

// MoneyJSON returns the wire form of amount, e.g. "350.00" in quotes
func MoneyJSON(t *testing.T, amount valueobject.Money) string {
	t.Helper()
	b, err := json.Marshal(amount)
	require.NoError(t, err)
	return string(b)
}
