package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL es la vida útil de un access token cuando no se configura otra
const DefaultTokenTTL = 30 * time.Minute

// TokenCodec firma y verifica bearer tokens HS256 con el id del usuario en
// "sub" y la expiración absoluta en "exp". El secreto no cambia después de
// construirlo.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec crea un codec; ttl <= 0 usa DefaultTokenTTL.
func NewTokenCodec(secret []byte, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	s := make([]byte, len(secret))
	copy(s, secret)
	return &TokenCodec{secret: s, ttl: ttl, now: time.Now}
}

// WithClock devuelve una copia del codec que usa now como reloj.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	cp := *c
	cp.now = now
	return &cp
}

// TTL devuelve la vida útil por defecto de los tokens emitidos.
func (c *TokenCodec) TTL() time.Duration { return c.ttl }

// Issue emite un token para subject con la vida útil por defecto.
func (c *TokenCodec) Issue(subject string) (string, error) {
	return c.IssueWithTTL(subject, c.ttl)
}

// IssueWithTTL emite un token para subject que expira en now+ttl.
func (c *TokenCodec) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("subject vacío")
	}
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("firmar token: %w", err)
	}
	return signed, nil
}

// Parse verifica firma, algoritmo y expiración y devuelve el subject.
// Todo fallo se reporta como ErrInvalidToken.
func (c *TokenCodec) Parse(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: sin subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}
