package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lizet96/historia-clinica/services"
)

// MedicoHandler agrupa las rutas de atención clínica
type MedicoHandler struct {
	atenciones *services.Atenciones
	cierres    *services.Cierres
}

func NewMedicoHandler(a *services.Atenciones, c *services.Cierres) *MedicoHandler {
	return &MedicoHandler{atenciones: a, cierres: c}
}

// ObtenerAtencionesPaciente lista las atenciones de un paciente
func (h *MedicoHandler) ObtenerAtencionesPaciente(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	atenciones, err := h.atenciones.ListarPorPaciente(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(atenciones)
}

// GuardarAtencion crea o actualiza una atención
func (h *MedicoHandler) GuardarAtencion(c *fiber.Ctx) error {
	var in services.AtencionInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
	}
	a, err := h.atenciones.Guardar(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(AtencionGuardadaResponse{Message: "Atención guardada", AtencionID: a.ID})
}

// ObtenerCierre devuelve el cierre de historia de una atención
func (h *MedicoHandler) ObtenerCierre(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	cierre, err := h.cierres.ObtenerPorAtencion(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(cierre)
}

// GuardarCierre crea o actualiza el cierre de historia de una atención
func (h *MedicoHandler) GuardarCierre(c *fiber.Ctx) error {
	var in services.CierreInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
	}
	cierre, err := h.cierres.Guardar(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(CierreGuardadoResponse{Message: "Cierre de historia guardado", CierreID: cierre.ID})
}
