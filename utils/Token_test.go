package utils_test

import (
	"testing"
	"time"

	"github.com/canopyhq/canopy-go/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeToken(t *testing.T, claims jwt.MapClaims) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestTokenClaims(t *testing.T) {
	token := makeToken(t, jwt.MapClaims{
		"iss": "canopy",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	claims, err := utils.TokenClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "canopy", claims["iss"])

	_, err = utils.TokenClaims("not-a-jwt")
	assert.Error(t, err)
}

func TestIsTokenExpired(t *testing.T) {
	valid := makeToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	expired := makeToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})
	noExpiry := makeToken(t, jwt.MapClaims{"iss": "canopy"})

	assert.False(t, utils.IsTokenExpired(valid))
	assert.True(t, utils.IsTokenExpired(expired))
	assert.False(t, utils.IsTokenExpired(noExpiry))
	assert.True(t, utils.IsTokenExpired("garbage"))
}
