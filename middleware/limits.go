package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimitConfig configuración para rate limiting
type RateLimitConfig struct {
	Max        int           // Número máximo de requests
	Expiration time.Duration // Ventana de tiempo
	Message    string
}

// DefaultRateLimit aplica a toda la API
var DefaultRateLimit = RateLimitConfig{
	Max:        300,
	Expiration: 15 * time.Minute,
	Message:    "Demasiadas peticiones, intenta más tarde",
}

// AuthRateLimit aplica a login y registro
var AuthRateLimit = RateLimitConfig{
	Max:        20,
	Expiration: 15 * time.Minute,
	Message:    "Demasiados intentos, intenta más tarde",
}

// CreateRateLimiter crea un middleware de rate limiting por IP
func CreateRateLimiter(config RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.Max,
		Expiration: config.Expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(config.Expiration.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"detail":      config.Message,
				"retry_after": int(config.Expiration.Seconds()),
			})
		},
	})
}

// AuthRateLimiter middleware de rate limiting para autenticación
func AuthRateLimiter() fiber.Handler {
	return CreateRateLimiter(AuthRateLimit)
}

// BodySizeLimit rechaza peticiones con cuerpo mayor a maxSize bytes
func BodySizeLimit(maxSize int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if maxSize > 0 && len(c.Body()) > maxSize {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"detail":   "El tamaño de la petición excede el límite permitido",
				"max_size": maxSize,
			})
		}
		return c.Next()
	}
}

// SecurityHeaders agrega headers de seguridad a todas las respuestas
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Content-Security-Policy", "default-src 'self'")
		c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		// Las respuestas llevan datos clínicos
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Next()
	}
}
