package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/lizet96/historia-clinica/auth"
	"github.com/lizet96/historia-clinica/database"
	"github.com/lizet96/historia-clinica/middleware"
	"github.com/lizet96/historia-clinica/services"
	"github.com/rs/zerolog"
)

// StatusFor traduce un tipo de error a su código HTTP
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, auth.ErrInactiveUser):
		return fiber.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, auth.ErrDuplicateEmail),
		errors.Is(err, auth.ErrDuplicateUsername),
		errors.Is(err, auth.ErrInvalidDate),
		errors.Is(err, auth.ErrMissingField),
		errors.Is(err, services.ErrDuplicateDocument),
		errors.Is(err, services.ErrValidation),
		database.IsUniqueViolation(err):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// detailFor devuelve el mensaje público del error. Los 401 usan mensajes
// fijos para no revelar si falló el token o el usuario.
func detailFor(err error, status int) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Credenciales incorrectas"
	case status == fiber.StatusUnauthorized:
		return "No se pudo validar las credenciales"
	case errors.Is(err, auth.ErrForbidden):
		return "No tienes permisos para acceder"
	case errors.Is(err, auth.ErrDuplicateEmail):
		return "El email ya está registrado"
	case errors.Is(err, auth.ErrDuplicateUsername):
		return "El username ya está registrado"
	case errors.Is(err, auth.ErrInvalidDate):
		return "Formato de fecha inválido"
	case database.IsUniqueViolation(err):
		return "El registro ya existe"
	case status >= fiber.StatusInternalServerError:
		return "Error interno del servidor"
	}
	return err.Error()
}

// ErrorHandler es el manejador de errores de la app: escribe {"detail"} con
// el status que corresponde y registra los errores internos.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := StatusFor(err)
		resp := ErrorResponse{Detail: detailFor(err, status)}

		var verr *services.ValidationError
		if errors.As(err, &verr) {
			resp.Fields = verr.Fields
		}

		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Interface("request_id", c.Locals(middleware.LocalRequestID)).
				Msg("Error interno")
		}
		if status == fiber.StatusUnauthorized {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}
		return c.Status(status).JSON(resp)
	}
}
