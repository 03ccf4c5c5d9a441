package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lizet96/historia-clinica/auth"
	"github.com/lizet96/historia-clinica/middleware"
	"github.com/lizet96/historia-clinica/models"
)

// UsuariosHandler atiende login, registro y perfil
type UsuariosHandler struct {
	svc *auth.Service
}

func NewUsuariosHandler(svc *auth.Service) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

// Login autentica un usuario y devuelve un bearer token
func (h *UsuariosHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email y contraseña son requeridos")
	}

	resp, err := h.svc.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// RegistrarUsuario crea un usuario con su rol y su perfil
func (h *UsuariosHandler) RegistrarUsuario(c *fiber.Ctx) error {
	var in auth.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
	}

	u, err := h.svc.Register(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(RegisterResponse{Message: "Usuario registrado correctamente", UsuarioID: u.ID})
}

// ObtenerPerfil devuelve el usuario autenticado con sus roles actuales
func (h *UsuariosHandler) ObtenerPerfil(c *fiber.Ctx) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return auth.ErrInvalidToken
	}
	roles, err := h.svc.Roles(c.UserContext(), u.ID)
	if err != nil {
		return err
	}
	return c.JSON(models.NewUsuarioResponse(u, auth.PrimaryRole(u, roles), roles))
}
