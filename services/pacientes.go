package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/lizet96/historia-clinica/auth"
	"github.com/lizet96/historia-clinica/database"
	"github.com/lizet96/historia-clinica/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// PacienteInput son los campos aceptados al crear un paciente
type PacienteInput struct {
	TipoDocumento       string `json:"tipo_documento"`
	NumeroDocumento     string `json:"numero_documento"`
	PrimerApellido      string `json:"primer_apellido"`
	SegundoApellido     string `json:"segundo_apellido"`
	PrimerNombre        string `json:"primer_nombre"`
	SegundoNombre       string `json:"segundo_nombre"`
	FechaNacimiento     string `json:"fecha_nacimiento"`
	Edad                *int   `json:"edad"`
	Sexo                string `json:"sexo"`
	Genero              string `json:"genero"`
	GrupoSanguineo      string `json:"grupo_sanguineo"`
	FactorRH            string `json:"factor_rh"`
	EstadoCivil         string `json:"estado_civil"`
	DireccionResidencia string `json:"direccion_residencia"`
	MunicipioCiudad     string `json:"municipio_ciudad"`
	Departamento        string `json:"departamento"`
	Telefono            string `json:"telefono"`
	Celular             string `json:"celular"`
	CorreoElectronico   string `json:"correo_electronico"`
	Ocupacion           string `json:"ocupacion"`
	EntidadPertenece    string `json:"entidad_pertenece"`
	RegimenAfiliacion   string `json:"regimen_afiliacion"`
	TipoUsuario         string `json:"tipo_usuario"`
	Observaciones       string `json:"observaciones"`
}

// Validate revisa los campos obligatorios y el formato de los opcionales.
func (in *PacienteInput) Validate() error {
	v := validator{}
	v.required("numero_documento", in.NumeroDocumento)
	v.required("primer_nombre", in.PrimerNombre)
	v.required("primer_apellido", in.PrimerApellido)
	if in.Edad != nil && (*in.Edad < 0 || *in.Edad > 150) {
		v["edad"] = "fuera de rango"
	}
	if c := strings.TrimSpace(in.CorreoElectronico); c != "" {
		if _, err := mail.ParseAddress(c); err != nil {
			v["correo_electronico"] = "formato inválido"
		}
	}
	return v.err()
}

// Pacientes administra los registros de pacientes
type Pacientes struct {
	db  *gorm.DB
	log zerolog.Logger
	now func() time.Time
}

func NewPacientes(db *gorm.DB, log zerolog.Logger) *Pacientes {
	return &Pacientes{db: db, log: log, now: time.Now}
}

// Obtener devuelve el paciente con el id dado
func (s *Pacientes) Obtener(ctx context.Context, id uint) (*models.Paciente, error) {
	var p models.Paciente
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, notFound("Paciente no encontrado")
		}
		return nil, fmt.Errorf("obtener paciente %d: %w", id, err)
	}
	return &p, nil
}

// Crear valida e inserta un paciente nuevo
func (s *Pacientes) Crear(ctx context.Context, in PacienteInput) (*models.Paciente, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	fecha, err := auth.ParseDate(in.FechaNacimiento)
	if err != nil {
		return nil, err
	}

	p := models.Paciente{
		TipoDocumento:       optional(in.TipoDocumento),
		NumeroDocumento:     optional(in.NumeroDocumento),
		PrimerApellido:      optional(in.PrimerApellido),
		SegundoApellido:     optional(in.SegundoApellido),
		PrimerNombre:        optional(in.PrimerNombre),
		SegundoNombre:       optional(in.SegundoNombre),
		FechaNacimiento:     models.NuevaFecha(fecha),
		Edad:                in.Edad,
		Sexo:                optional(in.Sexo),
		Genero:              optional(in.Genero),
		GrupoSanguineo:      optional(in.GrupoSanguineo),
		FactorRH:            optional(in.FactorRH),
		EstadoCivil:         optional(in.EstadoCivil),
		DireccionResidencia: optional(in.DireccionResidencia),
		MunicipioCiudad:     optional(in.MunicipioCiudad),
		Departamento:        optional(in.Departamento),
		Telefono:            optional(in.Telefono),
		Celular:             optional(in.Celular),
		CorreoElectronico:   optional(in.CorreoElectronico),
		Ocupacion:           optional(in.Ocupacion),
		EntidadPertenece:    optional(in.EntidadPertenece),
		RegimenAfiliacion:   optional(in.RegimenAfiliacion),
		TipoUsuario:         optional(in.TipoUsuario),
		Observaciones:       optional(in.Observaciones),
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateDocument
		}
		return nil, fmt.Errorf("crear paciente: %w", err)
	}

	s.log.Info().Uint("paciente_id", p.ID).Msg("Paciente creado")
	return &p, nil
}

// AgregarObservacion añade una entrada fechada y firmada por autor a la
// bitácora del paciente. La concatenación ocurre en un solo UPDATE, así que
// dos médicos escribiendo a la vez no se pisan.
func (s *Pacientes) AgregarObservacion(ctx context.Context, id uint, texto, autor string) error {
	texto = strings.TrimSpace(texto)
	if texto == "" {
		return &ValidationError{Fields: map[string]string{"observacion": "requerido"}}
	}
	entrada := fmt.Sprintf("\n[%s - %s]\n%s", s.now().Format("2006-01-02 15:04"), autor, texto)

	res := s.db.WithContext(ctx).
		Model(&models.Paciente{}).
		Where("id = ?", id).
		Update("observaciones", gorm.Expr("COALESCE(observaciones, '') || ?", entrada))
	if res.Error != nil {
		return fmt.Errorf("agregar observación al paciente %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("Paciente no encontrado")
	}

	s.log.Info().Uint("paciente_id", id).Str("autor", autor).Msg("Observación agregada")
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
