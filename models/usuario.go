package models

import (
	"time"
)

// Nombres de rol conocidos
const (
	RolMedico       = "medico"
	RolPaciente     = "paciente"
	RolAdmisionista = "admisionista"
	RolSecretaria   = "secretaria"
)

// RolesBase describe los roles que se siembran al migrar.
var RolesBase = map[string]string{
	RolMedico:       "Puede registrar observaciones y actualizar atención",
	RolAdmisionista: "Gestiona ingresos",
	RolPaciente:     "Solo consulta",
	RolSecretaria:   "Puede exportar en PDF",
}

// Usuario representa la tabla usuario en la base de datos
type Usuario struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Username       string    `json:"username" gorm:"size:50;uniqueIndex;not null"`
	Email          string    `json:"email" gorm:"size:150;uniqueIndex;not null"`
	HashedPassword string    `json:"-" gorm:"size:255;not null"`
	NombreCompleto string    `json:"nombre_completo" gorm:"size:200"`
	RolPrincipal   string    `json:"rol_principal" gorm:"size:50"`
	Activo         bool      `json:"activo" gorm:"default:true"`
	FechaCreacion  time.Time `json:"fecha_creacion" gorm:"autoCreateTime"`

	Roles       []Rol        `json:"-" gorm:"many2many:usuario_rol;"`
	Paciente    *Paciente    `json:"-" gorm:"foreignKey:UsuarioID"`
	Profesional *Profesional `json:"-" gorm:"foreignKey:UsuarioID"`
}

// Rol representa la tabla rol
type Rol struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Nombre string `json:"nombre" gorm:"size:50;uniqueIndex;not null"`
}

// UsuarioResponse representa la respuesta sin datos sensibles
type UsuarioResponse struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Rol            string    `json:"rol"`
	Roles          []string  `json:"roles"`
	NombreCompleto string    `json:"nombre_completo"`
	Activo         bool      `json:"activo"`
	FechaCreacion  time.Time `json:"fecha_creacion"`
}

// LoginResponse representa la respuesta del login
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	Rol         string   `json:"rol"`
	Roles       []string `json:"roles"`
}

// NewUsuarioResponse arma la respuesta pública de u con su rol efectivo.
func NewUsuarioResponse(u *Usuario, rol string, roles []string) UsuarioResponse {
	if roles == nil {
		roles = []string{}
	}
	return UsuarioResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Rol:            rol,
		Roles:          roles,
		NombreCompleto: u.NombreCompleto,
		Activo:         u.Activo,
		FechaCreacion:  u.FechaCreacion,
	}
}
