package rest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazardhub/hazardhub_api/config"
	"github.com/hazardhub/hazardhub_api/util"
)

func newAuthTestAPI() *API {
	return &API{
		Config: &config.Config{
			JwtSecret:  "test-secret",
			JwtExpires: "1h",
		},
	}
}

func TestTokenRoundTrip(t *testing.T) {
	api := newAuthTestAPI()
	userID := util.GenerateUUID().String()

	token, expiresAt, err := api.createToken(userID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := api.verifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, expiresAt.Unix(), claims.Exp)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	api := newAuthTestAPI()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": util.GenerateUUID().String(),
		"typ": "access",
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte(api.Config.JwtSecret))
	require.NoError(t, err)

	_, err = api.verifyToken(signed)
	require.Error(t, err)
	assert.Equal(t, "token expired", err.Error())
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	api := newAuthTestAPI()

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": util.GenerateUUID().String(),
		"typ": "access",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = api.verifyToken(signed)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsWrongType(t *testing.T) {
	api := newAuthTestAPI()

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": util.GenerateUUID().String(),
		"typ": "refresh",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := refresh.SignedString([]byte(api.Config.JwtSecret))
	require.NoError(t, err)

	_, err = api.verifyToken(signed)
	assert.Error(t, err)
}
