package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lizet96/historia-clinica/auth"
	"github.com/lizet96/historia-clinica/models"
)

// Claves de c.Locals
const (
	LocalUsuario   = "usuario"
	LocalRequestID = "request_id"
)

// BearerToken extrae el token del header Authorization
func BearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", fmt.Errorf("%w: token de autorización requerido", auth.ErrInvalidToken)
	}

	// Verificar que el token tenga el formato "Bearer <token>"
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: formato de token inválido", auth.ErrInvalidToken)
	}
	return strings.TrimSpace(token), nil
}

// Authenticated exige un bearer token válido de un usuario activo, sin
// importar su rol.
func Authenticated(svc *auth.Service) fiber.Handler {
	return guard(svc.ResolveToken)
}

// Require exige un token válido y que el usuario tenga alguno de los roles
// del gate. Los roles se consultan en cada petición.
func Require(gate *auth.Gate) fiber.Handler {
	return guard(gate.Authorize)
}

func guard(resolve func(context.Context, string) (*models.Usuario, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := BearerToken(c)
		if err != nil {
			return err
		}
		u, err := resolve(c.UserContext(), token)
		if err != nil {
			return err
		}
		c.Locals(LocalUsuario, u)
		return c.Next()
	}
}

// CurrentUser devuelve el usuario resuelto por Authenticated o Require
func CurrentUser(c *fiber.Ctx) (*models.Usuario, bool) {
	u, ok := c.Locals(LocalUsuario).(*models.Usuario)
	return u, ok && u != nil
}
