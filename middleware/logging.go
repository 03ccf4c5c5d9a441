package middleware

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lizet96/historia-clinica/models"
	"github.com/rs/zerolog"
)

// HeaderRequestID identifica la petición en logs y respuestas
const HeaderRequestID = "X-Request-ID"

const maxLoggedBody = 1000

// Campos que nunca se escriben en el log
var sensitiveFields = []string{"password", "token", "access_token", "secret", "firma_paciente", "firma_profesional"}

// LoggingMiddleware asigna un request id y registra cada petición con zerolog.
// Los errores de la cadena se resuelven con errHandler antes de registrar, así
// el log lleva el status real de la respuesta.
func LoggingMiddleware(log zerolog.Logger, errHandler fiber.ErrorHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		reqID := c.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Locals(LocalRequestID, reqID)
		c.Set(HeaderRequestID, reqID)

		if err := c.Next(); err != nil {
			if herr := errHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		entry := createLogEntry(c, reqID, time.Since(start))
		writeLogEntry(log, entry)
		return nil
	}
}

// createLogEntry crea una entrada de log basada en la petición
func createLogEntry(c *fiber.Ctx, reqID string, elapsed time.Duration) models.RequestLog {
	status := c.Response().StatusCode()
	entry := models.RequestLog{
		RequestID:    reqID,
		Method:       c.Method(),
		Path:         c.Path(),
		StatusCode:   status,
		ResponseTime: elapsed,
		IP:           c.IP(),
		UserAgent:    c.Get(fiber.HeaderUserAgent),
		Query:        string(c.Request().URI().QueryString()),
		LogLevel:     determineLogLevel(status),
	}
	if u, ok := CurrentUser(c); ok {
		entry.UsuarioID = u.ID
		entry.Username = u.Username
	}

	// Obtener body (solo para métodos POST, PUT, PATCH)
	switch c.Method() {
	case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch:
		if body := c.Body(); len(body) > 0 {
			entry.Body = filterSensitiveData(string(body))
		}
	}
	return entry
}

func writeLogEntry(log zerolog.Logger, entry models.RequestLog) {
	var ev *zerolog.Event
	switch entry.LogLevel {
	case models.LogLevelError:
		ev = log.Error()
	case models.LogLevelWarn:
		ev = log.Warn()
	default:
		ev = log.Info()
	}
	ev = ev.
		Str("request_id", entry.RequestID).
		Str("method", entry.Method).
		Str("path", entry.Path).
		Int("status", entry.StatusCode).
		Dur("latency", entry.ResponseTime).
		Str("ip", entry.IP)
	if entry.UsuarioID != 0 {
		ev = ev.Uint("usuario_id", entry.UsuarioID).Str("username", entry.Username)
	}
	if entry.Query != "" {
		ev = ev.Str("query", filterSensitiveQuery(entry.Query))
	}
	ev.Msg("Petición HTTP")

	// El cuerpo solo se escribe en nivel debug
	if entry.Body != "" && log.GetLevel() <= zerolog.DebugLevel {
		log.Debug().Str("request_id", entry.RequestID).Str("body", entry.Body).Msg("Cuerpo de la petición")
	}
}

// filterSensitiveData filtra información sensible del body. Acepta JSON y
// formularios urlencoded; cualquier otro contenido solo se trunca.
func filterSensitiveData(body string) string {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(body), &data); err == nil {
		for _, field := range sensitiveFields {
			if _, exists := data[field]; exists {
				data[field] = "[FILTERED]"
			}
		}
		filtered, _ := json.Marshal(data)
		return truncate(string(filtered))
	}
	if strings.Contains(body, "=") && !strings.ContainsAny(body, " \n{") {
		return truncate(filterSensitiveQuery(body))
	}
	return truncate(body)
}

// filterSensitiveQuery reemplaza los valores sensibles de pares clave=valor
func filterSensitiveQuery(q string) string {
	pares := strings.Split(q, "&")
	for i, par := range pares {
		clave, _, _ := strings.Cut(par, "=")
		for _, field := range sensitiveFields {
			if strings.EqualFold(clave, field) {
				pares[i] = clave + "=[FILTERED]"
			}
		}
	}
	return strings.Join(pares, "&")
}

func truncate(s string) string {
	if len(s) > maxLoggedBody {
		return s[:maxLoggedBody] + "...[truncated]"
	}
	return s
}

// determineLogLevel determina el nivel de log basado en el status code
func determineLogLevel(statusCode int) string {
	switch {
	case statusCode >= 500:
		return models.LogLevelError
	case statusCode >= 400:
		return models.LogLevelWarn
	default:
		return models.LogLevelInfo
	}
}
