package services

import (
	"errors"
	"sort"
	"strings"
)

// Tipos de error de los servicios de historia clínica
var (
	ErrNotFound          = errors.New("no encontrado")
	ErrDuplicateDocument = errors.New("ya existe un paciente con ese número de documento")
	ErrValidation        = errors.New("datos inválidos")
)

// kindError lleva un mensaje propio y se compara con errors.Is contra su tipo
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func notFound(msg string) error {
	return &kindError{kind: ErrNotFound, msg: msg}
}

// ValidationError enumera los campos rechazados y el motivo de cada uno.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	campos := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		campos = append(campos, k)
	}
	sort.Strings(campos)
	return ErrValidation.Error() + ": " + strings.Join(campos, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// validator acumula errores de campo
type validator map[string]string

func (v validator) required(campo, valor string) {
	if strings.TrimSpace(valor) == "" {
		v[campo] = "requerido"
	}
}

func (v validator) err() error {
	if len(v) == 0 {
		return nil
	}
	return &ValidationError{Fields: v}
}
