package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/lizet96/historia-clinica/models"
)

// Gate autoriza el acceso a una operación protegida según una lista fija de
// roles permitidos. Los roles del usuario se leen de la base en cada llamada,
// nunca del token, así que una revocación aplica en la siguiente petición.
type Gate struct {
	svc     *Service
	allowed []string
}

// NewGate crea un gate que acepta cualquiera de roles.
func NewGate(svc *Service, roles ...string) *Gate {
	allowed := make([]string, 0, len(roles))
	for _, r := range roles {
		if r = NormalizeRole(r); r != "" {
			allowed = append(allowed, r)
		}
	}
	return &Gate{svc: svc, allowed: allowed}
}

// Allowed devuelve la lista de roles permitidos.
func (g *Gate) Allowed() []string {
	return append([]string(nil), g.allowed...)
}

// Allows indica si algún rol de roles está en la lista permitida.
func (g *Gate) Allows(roles []string) bool {
	for _, have := range roles {
		for _, want := range g.allowed {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Authorize resuelve el token, recarga los roles del usuario y verifica que
// alguno esté permitido. Devuelve el usuario resuelto.
func (g *Gate) Authorize(ctx context.Context, token string) (*models.Usuario, error) {
	u, err := g.svc.ResolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	roles, err := g.svc.Roles(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if !g.Allows(roles) {
		g.svc.log.Warn().
			Uint("usuario_id", u.ID).
			Strs("roles", roles).
			Str("requeridos", strings.Join(g.allowed, ",")).
			Msg("Acceso denegado")
		return nil, fmt.Errorf("%w: requiere %s", ErrForbidden, strings.Join(g.allowed, " o "))
	}
	return u, nil
}
