package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lizet96/historia-clinica/auth"
	"github.com/lizet96/historia-clinica/services"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{auth.ErrInvalidCredentials, 401},
		{fmt.Errorf("%w: expirado", auth.ErrInvalidToken), 401},
		{auth.ErrUserNotFound, 401},
		{auth.ErrInactiveUser, 401},
		{fmt.Errorf("%w: requiere medico", auth.ErrForbidden), 403},
		{fmt.Errorf("registrar usuario x: %w", auth.ErrDuplicateEmail), 400},
		{auth.ErrDuplicateUsername, 400},
		{auth.ErrInvalidDate, 400},
		{auth.ErrMissingField, 400},
		{services.ErrDuplicateDocument, 400},
		{&services.ValidationError{Fields: map[string]string{"a": "requerido"}}, 400},
		{&pgconn.PgError{Code: "23505"}, 400},
		{services.ErrNotFound, 404},
		{fiber.NewError(fiber.StatusRequestEntityTooLarge, "grande"), 413},
		{errors.New("conexión perdida"), 500},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zerolog.Nop())})
	app.Get("/interno", func(c *fiber.Ctx) error {
		return errors.New("pq: password authentication failed for user admin")
	})
	app.Get("/validacion", func(c *fiber.Ctx) error {
		return &services.ValidationError{Fields: map[string]string{"primer_nombre": "requerido"}}
	})
	app.Get("/token", func(c *fiber.Ctx) error {
		return fmt.Errorf("%w: token is expired", auth.ErrInvalidToken)
	})

	read := func(path string) (int, ErrorResponse, string) {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(raw, &body))
		return resp.StatusCode, body, resp.Header.Get("WWW-Authenticate")
	}

	status, body, _ := read("/interno")
	assert.Equal(t, 500, status)
	assert.Equal(t, "Error interno del servidor", body.Detail)

	status, body, _ = read("/validacion")
	assert.Equal(t, 400, status)
	assert.Equal(t, map[string]string{"primer_nombre": "requerido"}, body.Fields)

	status, body, hdr := read("/token")
	assert.Equal(t, 401, status)
	assert.NotContains(t, body.Detail, "expired")
	assert.Equal(t, "Bearer", hdr)
}

func TestDecodePacienteInput(t *testing.T) {
	in, err := decodePacienteInput([]byte(`{"numero_documento":"1","primer_nombre":"Ana","edad":30}`))
	require.NoError(t, err)
	assert.Equal(t, "Ana", in.PrimerNombre)
	require.NotNil(t, in.Edad)
	assert.Equal(t, 30, *in.Edad)

	for name, body := range map[string]string{
		"unknown field": `{"primer_nombre":"Ana","hashed_password":"x"}`,
		"empty":         ``,
		"trailing":      `{"primer_nombre":"Ana"} {}`,
		"wrong type":    `{"edad":"treinta"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := decodePacienteInput([]byte(body))
			var fe *fiber.Error
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, fiber.StatusBadRequest, fe.Code)
		})
	}
}
