package models

// Paciente representa la tabla paciente en la base de datos
type Paciente struct {
	ID uint `json:"id" gorm:"primaryKey"`

	TipoDocumento   *string `json:"tipo_documento" gorm:"size:20"`
	NumeroDocumento *string `json:"numero_documento" gorm:"size:50;uniqueIndex"`

	PrimerApellido  *string `json:"primer_apellido" gorm:"size:100"`
	SegundoApellido *string `json:"segundo_apellido" gorm:"size:100"`
	PrimerNombre    *string `json:"primer_nombre" gorm:"size:100"`
	SegundoNombre   *string `json:"segundo_nombre" gorm:"size:100"`

	FechaNacimiento *Fecha `json:"fecha_nacimiento" gorm:"type:date"`
	Edad            *int   `json:"edad"`

	Sexo           *string `json:"sexo" gorm:"size:20"`
	Genero         *string `json:"genero" gorm:"size:50"`
	GrupoSanguineo *string `json:"grupo_sanguineo" gorm:"size:5"`
	FactorRH       *string `json:"factor_rh" gorm:"column:factor_rh;size:5"`
	EstadoCivil    *string `json:"estado_civil" gorm:"size:50"`

	DireccionResidencia *string `json:"direccion_residencia" gorm:"size:200"`
	MunicipioCiudad     *string `json:"municipio_ciudad" gorm:"size:100"`
	Departamento        *string `json:"departamento" gorm:"size:100"`

	Telefono          *string `json:"telefono" gorm:"size:50"`
	Celular           *string `json:"celular" gorm:"size:50"`
	CorreoElectronico *string `json:"correo_electronico" gorm:"size:150"`

	Ocupacion         *string `json:"ocupacion" gorm:"size:150"`
	EntidadPertenece  *string `json:"entidad_pertenece" gorm:"size:150"`
	RegimenAfiliacion *string `json:"regimen_afiliacion" gorm:"size:50"`
	TipoUsuario       *string `json:"tipo_usuario" gorm:"size:50"`

	// Observaciones es una bitácora de texto libre que alimentan los médicos
	Observaciones *string `json:"observaciones" gorm:"type:text"`

	UsuarioID *uint `json:"usuario_id" gorm:"uniqueIndex"`
}

// Profesional representa la tabla profesional
type Profesional struct {
	ID                uint    `json:"id" gorm:"primaryKey"`
	NombreProfesional *string `json:"nombre_profesional" gorm:"size:200"`
	TipoProfesional   *string `json:"tipo_profesional" gorm:"size:100"`
	RegistroMedico    *string `json:"registro_medico" gorm:"size:100"`
	CargoServicio     *string `json:"cargo_servicio" gorm:"size:150"`
	FirmaProfesional  *string `json:"firma_profesional" gorm:"size:150"`
	UsuarioID         *uint   `json:"usuario_id" gorm:"uniqueIndex"`
}
