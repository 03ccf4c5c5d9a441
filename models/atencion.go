package models

import (
	"time"
)

// Atencion representa una visita clínica de un paciente
type Atencion struct {
	ID                     uint      `json:"id" gorm:"primaryKey"`
	PacienteID             uint      `json:"paciente_id" gorm:"not null;index"`
	FechaHoraAtencion      time.Time `json:"fecha_hora_atencion"`
	TipoAtencion           string    `json:"tipo_atencion" gorm:"size:50"`
	MotivoConsulta         string    `json:"motivo_consulta" gorm:"type:text"`
	EnfermedadActual       string    `json:"enfermedad_actual" gorm:"type:text"`
	AntecedentesPersonales string    `json:"antecedentes_personales" gorm:"type:text"`
	AntecedentesFamiliares string    `json:"antecedentes_familiares" gorm:"type:text"`
	Alergias               string    `json:"alergias" gorm:"type:text"`
	Habitos                string    `json:"habitos" gorm:"type:text"`

	Paciente *Paciente `json:"-" gorm:"foreignKey:PacienteID"`
}

// CierreHistoria es el documento de cierre de una atención (máximo uno por atención)
type CierreHistoria struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	AtencionID          uint      `json:"atencion_id" gorm:"not null;uniqueIndex"`
	FirmaPaciente       string    `json:"firma_paciente" gorm:"type:text"`
	FechaHoraCierre     time.Time `json:"fecha_hora_cierre"`
	ResponsableRegistro string    `json:"responsable_registro" gorm:"size:150"`

	Atencion *Atencion `json:"-" gorm:"foreignKey:AtencionID"`
}
