package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lizet96/historia-clinica/middleware"
	"github.com/lizet96/historia-clinica/services"
)

// PacientesHandler expone los registros de pacientes
type PacientesHandler struct {
	pacientes *services.Pacientes
}

func NewPacientesHandler(p *services.Pacientes) *PacientesHandler {
	return &PacientesHandler{pacientes: p}
}

// ObtenerPaciente devuelve un paciente por id
func (h *PacientesHandler) ObtenerPaciente(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.pacientes.Obtener(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// CrearPaciente crea un paciente desde un cuerpo JSON. Campos desconocidos
// se rechazan.
func (h *PacientesHandler) CrearPaciente(c *fiber.Ctx) error {
	in, err := decodePacienteInput(c.Body())
	if err != nil {
		return err
	}
	p, err := h.pacientes.Crear(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(PacienteCreadoResponse{Message: "Paciente creado", PacienteID: p.ID})
}

// AgregarObservacion añade una observación firmada por el médico autenticado.
// El texto llega en el query string o en el cuerpo.
func (h *PacientesHandler) AgregarObservacion(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	texto := c.Query("observacion")
	if texto == "" && len(c.Body()) > 0 {
		var req ObservacionRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		texto = req.Observacion
	}

	u, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	autor := u.NombreCompleto
	if strings.TrimSpace(autor) == "" {
		autor = u.Username
	}

	if err := h.pacientes.AgregarObservacion(c.UserContext(), id, texto, autor); err != nil {
		return err
	}
	return c.JSON(MessageResponse{Message: "Observación agregada"})
}

func decodePacienteInput(body []byte) (services.PacienteInput, error) {
	var in services.PacienteInput
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return in, fiber.NewError(fiber.StatusBadRequest, "Cuerpo vacío")
		}
		return in, fiber.NewError(fiber.StatusBadRequest, "JSON inválido: "+err.Error())
	}
	if dec.More() {
		return in, fiber.NewError(fiber.StatusBadRequest, "JSON inválido: datos adicionales")
	}
	return in, nil
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "ID inválido")
	}
	return uint(id), nil
}
