package handlers

// ErrorResponse es el cuerpo de toda respuesta de error
type ErrorResponse struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}

// NotFoundResponse se devuelve para rutas inexistentes
type NotFoundResponse struct {
	Detail string `json:"detail"`
	Path   string `json:"path"`
	Method string `json:"method"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type RegisterResponse struct {
	Message   string `json:"message"`
	UsuarioID uint   `json:"usuario_id"`
}

type PacienteCreadoResponse struct {
	Message    string `json:"message"`
	PacienteID uint   `json:"paciente_id"`
}

type AtencionGuardadaResponse struct {
	Message    string `json:"message"`
	AtencionID uint   `json:"atencion_id"`
}

type CierreGuardadoResponse struct {
	Message  string `json:"message"`
	CierreID uint   `json:"cierre_id"`
}

// LoginRequest acepta formulario o JSON
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// ObservacionRequest es el cuerpo opcional de una observación
type ObservacionRequest struct {
	Observacion string `form:"observacion" json:"observacion"`
}
