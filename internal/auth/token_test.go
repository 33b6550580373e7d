package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestExtractTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/orders", nil)
	r.Header.Set("Authorization", "Bearer abc.def.ghi")

	token, err := ExtractTokenFromRequest(r)
	assert.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)
}

func TestExtractTokenFromRequest_MissingHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/orders", nil)

	_, err := ExtractTokenFromRequest(r)
	assert.Error(t, err)
}

func TestExtractTokenFromRequest_BadFormat(t *testing.T) {
	for _, header := range []string{"abc.def.ghi", "Basic abc", "Bearer a b"} {
		r := httptest.NewRequest("GET", "/api/orders", nil)
		r.Header.Set("Authorization", header)

		_, err := ExtractTokenFromRequest(r)
		assert.Error(t, err, "header %q", header)
	}
}

func TestExtractUserIDFromJWT(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "user-123"})

	userID, err := ExtractUserIDFromJWT(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestExtractUserIDFromJWT_MissingSubject(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"email": "ada@example.com"})

	_, err := ExtractUserIDFromJWT(token)
	assert.Error(t, err)
}

func TestExtractUserIDFromJWT_NotAToken(t *testing.T) {
	_, err := ExtractUserIDFromJWT("")
	assert.Error(t, err)

	_, err = ExtractUserIDFromJWT("not-a-jwt")
	assert.Error(t, err)
}
