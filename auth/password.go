package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword genera un hash bcrypt con sal; el costo queda embebido en el digest.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash de contraseña: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compara plain contra digest. Cualquier diferencia,
// incluido un digest corrupto, devuelve false.
func VerifyPassword(plain, digest string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain))
	return err == nil
}

// dummyHash se compara cuando el email no existe para que el login tarde
// lo mismo en ambos casos.
var dummyHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("historia-clinica"), bcrypt.DefaultCost)
	if err != nil {
		panic(errors.Join(errors.New("inicializar dummyHash"), err))
	}
	return string(h)
}()
