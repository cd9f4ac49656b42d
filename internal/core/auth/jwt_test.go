package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTer() *JWTer {
	return &JWTer{Secret: []byte("test-secret"), Issuer: "recipe-api", TTL: time.Hour}
}

func TestIssueParse_RoundTrip(t *testing.T) {
	j := newJWTer()
	tok, err := j.Issue("42", "a@x.com", "ROLE_USER")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "42", c.UID)
	assert.Equal(t, "42", c.Subject)
	assert.Equal(t, "a@x.com", c.Email)
	assert.Equal(t, "ROLE_USER", c.Role)
}

func TestParse_WrongSecret(t *testing.T) {
	tok, err := newJWTer().Issue("1", "a@x.com", "ROLE_USER")
	require.NoError(t, err)

	other := newJWTer()
	other.Secret = []byte("another")
	_, err = other.Parse(tok)
	require.Error(t, err)
}

func TestParse_WrongIssuer(t *testing.T) {
	tok, err := newJWTer().Issue("1", "a@x.com", "ROLE_USER")
	require.NoError(t, err)

	other := newJWTer()
	other.Issuer = "someone-else"
	_, err = other.Parse(tok)
	require.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	j := newJWTer()
	j.TTL = -2 * time.Minute // beyond the 60s leeway
	tok, err := j.Issue("1", "a@x.com", "ROLE_USER")
	require.NoError(t, err)

	_, err = newJWTer().Parse(tok)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParse_RejectsOtherAlg(t *testing.T) {
	claims := Claims{UID: "1", RegisteredClaims: jwt.RegisteredClaims{Issuer: "recipe-api"}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = newJWTer().Parse(tok)
	require.Error(t, err)
}

func TestParse_Garbage(t *testing.T) {
	_, err := newJWTer().Parse("not-a-token")
	require.Error(t, err)
}
