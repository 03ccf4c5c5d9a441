package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer   abc ", "abc", true},
		{"", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				tok, err := BearerToken(c)
				if !tt.ok {
					assert.Error(t, err)
					return c.SendStatus(fiber.StatusUnauthorized)
				}
				require.NoError(t, err)
				assert.Equal(t, tt.want, tok)
				return c.SendStatus(fiber.StatusOK)
			})

			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			if tt.ok {
				assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			}
		})
	}
}

func TestFilterSensitiveData(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		out := filterSensitiveData(`{"email":"a@b.c","password":"secreto","firma_paciente":"x"}`)
		var data map[string]string
		require.NoError(t, json.Unmarshal([]byte(out), &data))
		assert.Equal(t, "a@b.c", data["email"])
		assert.Equal(t, "[FILTERED]", data["password"])
		assert.Equal(t, "[FILTERED]", data["firma_paciente"])
	})

	t.Run("form", func(t *testing.T) {
		out := filterSensitiveData("email=a%40b.c&password=secreto")
		assert.Equal(t, "email=a%40b.c&password=[FILTERED]", out)
	})

	t.Run("truncate", func(t *testing.T) {
		out := filterSensitiveData(strings.Repeat("x ", 1000))
		assert.True(t, strings.HasSuffix(out, "...[truncated]"))
		assert.Len(t, out, maxLoggedBody+len("...[truncated]"))
	})
}

func TestDetermineLogLevel(t *testing.T) {
	assert.Equal(t, "info", determineLogLevel(200))
	assert.Equal(t, "info", determineLogLevel(302))
	assert.Equal(t, "warn", determineLogLevel(404))
	assert.Equal(t, "error", determineLogLevel(503))
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.InfoLevel)

	app := fiber.New()
	app.Use(LoggingMiddleware(log, fiber.DefaultErrorHandler))
	app.Post("/login", func(c *fiber.Ctx) error {
		return fiber.ErrTeapot
	})

	req := httptest.NewRequest("POST", "/login?token=abc", strings.NewReader(`{"password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderRequestID, "req-123")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "req-123", resp.Header.Get(HeaderRequestID))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, float64(418), entry["status"])
	assert.Equal(t, "token=[FILTERED]", entry["query"])
	assert.NotContains(t, buf.String(), `"x"`)
}

func TestLoggingMiddleware_GeneratesRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(LoggingMiddleware(zerolog.Nop(), fiber.DefaultErrorHandler))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocalRequestID).(string))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	id := resp.Header.Get(HeaderRequestID)
	assert.Len(t, id, 36)
}

func TestBodySizeLimit(t *testing.T) {
	app := fiber.New()
	app.Use(BodySizeLimit(8))
	app.Post("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("POST", "/", strings.NewReader("0123456789")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/", strings.NewReader("0123")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSecurityHeaders(t *testing.T) {
	app := fiber.New()
	app.Use(SecurityHeaders())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
}

func TestRateLimiter(t *testing.T) {
	app := fiber.New()
	app.Use(CreateRateLimiter(RateLimitConfig{Max: 2, Expiration: time.Minute, Message: "basta"}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
}
