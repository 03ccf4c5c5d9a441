package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// Version de la API
const Version = "2.0.0"

// Pinger es lo que /health necesita de la base de datos
type Pinger interface {
	Ping(ctx context.Context) error
}

// Root indica que el servicio está en línea
func Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "online",
		"version": Version,
	})
}

// Health verifica la conexión con la base de datos
func Health(db Pinger, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			log.Error().Err(err).Msg("Health check fallido")
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Detail: "Error de base de datos"})
		}
		return c.JSON(fiber.Map{
			"status":   "ok",
			"database": "connected",
		})
	}
}

// NotFound responde a rutas que no existen
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(NotFoundResponse{
		Detail: "Ruta no encontrada",
		Path:   c.Path(),
		Method: c.Method(),
	})
}
