package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lizet96/historia-clinica/database"
	"github.com/lizet96/historia-clinica/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// AtencionInput es el formulario de creación o edición de una atención.
// Con AtencionID se edita esa atención; sin él se crea una nueva.
type AtencionInput struct {
	AtencionID             uint   `form:"atencion_id" json:"atencion_id"`
	PacienteID             uint   `form:"paciente_id" json:"paciente_id"`
	FechaHoraAtencion      string `form:"fecha_hora_atencion" json:"fecha_hora_atencion"`
	TipoAtencion           string `form:"tipo_atencion" json:"tipo_atencion"`
	MotivoConsulta         string `form:"motivo_consulta" json:"motivo_consulta"`
	EnfermedadActual       string `form:"enfermedad_actual" json:"enfermedad_actual"`
	AntecedentesPersonales string `form:"antecedentes_personales" json:"antecedentes_personales"`
	AntecedentesFamiliares string `form:"antecedentes_familiares" json:"antecedentes_familiares"`
	Alergias               string `form:"alergias" json:"alergias"`
	Habitos                string `form:"habitos" json:"habitos"`
}

func (in *AtencionInput) validate() error {
	v := validator{}
	if in.AtencionID == 0 && in.PacienteID == 0 {
		v["paciente_id"] = "requerido"
	}
	v.required("fecha_hora_atencion", in.FechaHoraAtencion)
	v.required("tipo_atencion", in.TipoAtencion)
	v.required("motivo_consulta", in.MotivoConsulta)
	return v.err()
}

type Atenciones struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewAtenciones(db *gorm.DB, log zerolog.Logger) *Atenciones {
	return &Atenciones{db: db, log: log}
}

// ListarPorPaciente devuelve las atenciones del paciente, la más reciente primero
func (s *Atenciones) ListarPorPaciente(ctx context.Context, pacienteID uint) ([]models.Atencion, error) {
	atenciones := []models.Atencion{}
	err := s.db.WithContext(ctx).
		Where("paciente_id = ?", pacienteID).
		Order("fecha_hora_atencion DESC").
		Order("id DESC").
		Find(&atenciones).Error
	if err != nil {
		return nil, fmt.Errorf("listar atenciones del paciente %d: %w", pacienteID, err)
	}
	return atenciones, nil
}

// Guardar crea o actualiza una atención. Al actualizar, el paciente de la
// atención no cambia.
func (s *Atenciones) Guardar(ctx context.Context, in AtencionInput) (*models.Atencion, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	fecha, err := ParseTimestamp(in.FechaHoraAtencion)
	if err != nil {
		return nil, err
	}

	var a models.Atencion
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.AtencionID != 0 {
			if err := tx.First(&a, in.AtencionID).Error; err != nil {
				if database.IsNotFound(err) {
					return notFound("Atención no encontrada")
				}
				return err
			}
		} else {
			var n int64
			if err := tx.Model(&models.Paciente{}).Where("id = ?", in.PacienteID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return notFound("Paciente no encontrado")
			}
			a.PacienteID = in.PacienteID
		}

		a.FechaHoraAtencion = fecha
		a.TipoAtencion = in.TipoAtencion
		a.MotivoConsulta = in.MotivoConsulta
		a.EnfermedadActual = in.EnfermedadActual
		a.AntecedentesPersonales = in.AntecedentesPersonales
		a.AntecedentesFamiliares = in.AntecedentesFamiliares
		a.Alergias = in.Alergias
		a.Habitos = in.Habitos
		return tx.Save(&a).Error
	})
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("guardar atención: %w", err)
	}

	s.log.Info().Uint("atencion_id", a.ID).Uint("paciente_id", a.PacienteID).Msg("Atención guardada")
	return &a, nil
}
