package auth

import "errors"

// Errores del servicio de autenticación. Los handlers los traducen a
// códigos HTTP con errors.Is.
var (
	ErrInvalidCredentials = errors.New("credenciales incorrectas")
	ErrInvalidToken       = errors.New("token inválido")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrInactiveUser       = errors.New("usuario inactivo")
	ErrForbidden          = errors.New("no tienes permisos para acceder")
	ErrDuplicateEmail     = errors.New("ya existe un usuario con ese email")
	ErrDuplicateUsername  = errors.New("ya existe un usuario con ese username")
	ErrInvalidDate        = errors.New("fecha inválida")
	ErrMissingField       = errors.New("campo requerido")
)
