package models

import (
	"time"
)

// RequestLog es una entrada del log de peticiones HTTP
type RequestLog struct {
	RequestID    string
	Method       string
	Path         string
	StatusCode   int
	ResponseTime time.Duration
	IP           string
	UserAgent    string
	Body         string // filtrado y truncado
	Query        string
	UsuarioID    uint
	Username     string
	LogLevel     string
}

// Niveles de log según la clase del status
const (
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)
