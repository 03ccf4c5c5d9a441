package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("secreto-de-pruebas-con-32-bytes!")

func TestTokenCodec_RoundTrip(t *testing.T) {
	c := NewTokenCodec(testSecret, time.Minute)

	tok, err := c.Issue("42")
	require.NoError(t, err)

	sub, err := c.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "42", sub)
}

func TestTokenCodec_DefaultTTL(t *testing.T) {
	c := NewTokenCodec(testSecret, 0)
	assert.Equal(t, DefaultTokenTTL, c.TTL())
}

func TestTokenCodec_Expired(t *testing.T) {
	issued := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	c := NewTokenCodec(testSecret, 30*time.Minute).WithClock(func() time.Time { return issued })

	tok, err := c.Issue("7")
	require.NoError(t, err)

	// todavía válido
	_, err = c.WithClock(func() time.Time { return issued.Add(29 * time.Minute) }).Parse(tok)
	require.NoError(t, err)

	_, err = c.WithClock(func() time.Time { return issued.Add(31 * time.Minute) }).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_NegativeTTLIsExpired(t *testing.T) {
	c := NewTokenCodec(testSecret, time.Minute)
	tok, err := c.IssueWithTTL("7", -time.Second)
	require.NoError(t, err)

	_, err = c.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_Rejects(t *testing.T) {
	c := NewTokenCodec(testSecret, time.Minute)
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	sign := func(method jwt.SigningMethod, claims jwt.Claims, key any) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	valid, err := c.Issue("1")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"tampered", valid[:len(valid)-2] + "xx"},
		{"other secret", sign(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1", ExpiresAt: exp}, []byte("otro"))},
		{"other algorithm", sign(jwt.SigningMethodHS512, jwt.RegisteredClaims{Subject: "1", ExpiresAt: exp}, testSecret)},
		{"none algorithm", sign(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "1", ExpiresAt: exp}, jwt.UnsafeAllowNoneSignatureType)},
		{"no expiry", sign(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1"}, testSecret)},
		{"no subject", sign(jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: exp}, testSecret)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Parse(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenCodec_EmptySubject(t *testing.T) {
	c := NewTokenCodec(testSecret, time.Minute)
	_, err := c.Issue("")
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("medico123")
	require.NoError(t, err)
	assert.NotEqual(t, "medico123", hash)

	assert.True(t, VerifyPassword("medico123", hash))
	assert.False(t, VerifyPassword("medico124", hash))
	assert.False(t, VerifyPassword("medico123", "no-es-un-hash"))

	other, err := HashPassword("medico123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "each hash carries its own salt")
}
