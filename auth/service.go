package auth

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lizet96/historia-clinica/database"
	"github.com/lizet96/historia-clinica/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// TokenType es el tipo de token devuelto por Login
const TokenType = "bearer"

// dateLayout es el formato ISO de fechas de nacimiento
const dateLayout = "2006-01-02"

// RegisterInput son los campos del formulario de registro
type RegisterInput struct {
	Username       string `form:"username" json:"username"`
	Email          string `form:"email" json:"email"`
	NombreCompleto string `form:"nombre_completo" json:"nombre_completo"`
	Rol            string `form:"rol" json:"rol"`
	Password       string `form:"password" json:"password"`

	// Perfil de paciente
	TipoDocumento       string `form:"tipo_documento" json:"tipo_documento"`
	NumeroDocumento     string `form:"numero_documento" json:"numero_documento"`
	PrimerApellido      string `form:"primer_apellido" json:"primer_apellido"`
	SegundoApellido     string `form:"segundo_apellido" json:"segundo_apellido"`
	PrimerNombre        string `form:"primer_nombre" json:"primer_nombre"`
	SegundoNombre       string `form:"segundo_nombre" json:"segundo_nombre"`
	FechaNacimiento     string `form:"fecha_nacimiento" json:"fecha_nacimiento"`
	Sexo                string `form:"sexo" json:"sexo"`
	DireccionResidencia string `form:"direccion_residencia" json:"direccion_residencia"`
	MunicipioCiudad     string `form:"municipio_ciudad" json:"municipio_ciudad"`
	Departamento        string `form:"departamento" json:"departamento"`
	Telefono            string `form:"telefono" json:"telefono"`
	Celular             string `form:"celular" json:"celular"`
	CorreoElectronico   string `form:"correo_electronico" json:"correo_electronico"`
	Ocupacion           string `form:"ocupacion" json:"ocupacion"`
	EntidadPertenece    string `form:"entidad_pertenece" json:"entidad_pertenece"`
	RegimenAfiliacion   string `form:"regimen_afiliacion" json:"regimen_afiliacion"`
	TipoUsuario         string `form:"tipo_usuario" json:"tipo_usuario"`

	// Perfil de profesional
	TipoProfesional  string `form:"tipo_profesional" json:"tipo_profesional"`
	RegistroMedico   string `form:"registro_medico" json:"registro_medico"`
	CargoServicio    string `form:"cargo_servicio" json:"cargo_servicio"`
	FirmaProfesional string `form:"firma_profesional" json:"firma_profesional"`
}

// Service autentica usuarios contra la base de datos y emite tokens
type Service struct {
	db     *gorm.DB
	tokens *TokenCodec
	log    zerolog.Logger
}

func NewService(db *gorm.DB, tokens *TokenCodec, log zerolog.Logger) *Service {
	return &Service{db: db, tokens: tokens, log: log}
}

// Tokens expone el codec usado por el servicio.
func (s *Service) Tokens() *TokenCodec { return s.tokens }

// Login verifica email y contraseña. Un email inexistente y una contraseña
// incorrecta producen el mismo error. Los espacios alrededor del email se
// ignoran, igual que en Register.
func (s *Service) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	email = strings.TrimSpace(email)
	var u models.Usuario
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		if !database.IsNotFound(err) {
			return nil, fmt.Errorf("buscar usuario: %w", err)
		}
		VerifyPassword(password, dummyHash)
		s.log.Warn().Str("email", email).Msg("Login fallido")
		return nil, ErrInvalidCredentials
	}
	if !VerifyPassword(password, u.HashedPassword) || !u.Activo {
		s.log.Warn().Str("email", email).Msg("Login fallido")
		return nil, ErrInvalidCredentials
	}

	roles, err := s.Roles(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	token, err := s.IssueToken(&u)
	if err != nil {
		return nil, err
	}

	s.log.Info().Uint("usuario_id", u.ID).Msg("Login exitoso")
	return &models.LoginResponse{
		AccessToken: token,
		TokenType:   TokenType,
		Rol:         PrimaryRole(&u, roles),
		Roles:       roles,
	}, nil
}

// IssueToken emite un token con el id de u como subject
func (s *Service) IssueToken(u *models.Usuario) (string, error) {
	return s.tokens.Issue(strconv.FormatUint(uint64(u.ID), 10))
}

// ResolveToken devuelve el usuario dueño de un token válido.
func (s *Service) ResolveToken(ctx context.Context, token string) (*models.Usuario, error) {
	sub, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("%w: subject %q", ErrInvalidToken, sub)
	}

	var u models.Usuario
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("buscar usuario %d: %w", id, err)
	}
	if !u.Activo {
		return nil, ErrInactiveUser
	}
	return &u, nil
}

// Roles lee los roles actuales del usuario, ordenados por nombre.
func (s *Service) Roles(ctx context.Context, userID uint) ([]string, error) {
	var roles []models.Rol
	err := s.db.WithContext(ctx).Model(&models.Usuario{ID: userID}).Association("Roles").Find(&roles)
	if err != nil {
		return nil, fmt.Errorf("leer roles del usuario %d: %w", userID, err)
	}
	nombres := make([]string, 0, len(roles))
	for _, r := range roles {
		nombres = append(nombres, r.Nombre)
	}
	sort.Strings(nombres)
	return nombres, nil
}

// PrimaryRole elige el rol representativo: el rol principal si el usuario aún
// lo tiene, si no el primero en orden alfabético, y "paciente" si no tiene roles.
func PrimaryRole(u *models.Usuario, roles []string) string {
	for _, r := range roles {
		if r == u.RolPrincipal {
			return r
		}
	}
	if len(roles) > 0 {
		return roles[0]
	}
	return models.RolPaciente
}

// NormalizeRole pasa un nombre de rol a minúsculas sin espacios alrededor
func NormalizeRole(rol string) string {
	return strings.ToLower(strings.TrimSpace(rol))
}

// DisplayName usa el nombre completo enviado; si está vacío, une nombres y
// apellidos; como último recurso usa el username.
func DisplayName(in RegisterInput) string {
	if n := strings.TrimSpace(in.NombreCompleto); n != "" {
		return n
	}
	var partes []string
	for _, p := range []string{in.PrimerNombre, in.SegundoNombre, in.PrimerApellido, in.SegundoApellido} {
		if p = strings.TrimSpace(p); p != "" {
			partes = append(partes, p)
		}
	}
	if len(partes) > 0 {
		return strings.Join(partes, " ")
	}
	return in.Username
}

// ParseDate interpreta una fecha YYYY-MM-DD; vacío devuelve nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, s)
	}
	return &t, nil
}

// Register crea el usuario, enlaza su rol y crea el perfil de paciente o
// profesional en una sola transacción.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.Usuario, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	for campo, valor := range map[string]string{
		"username": in.Username, "email": in.Email, "password": in.Password, "rol": in.Rol,
	} {
		if strings.TrimSpace(valor) == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, campo)
		}
	}

	rol := NormalizeRole(in.Rol)
	var fechaNac *time.Time
	if rol == models.RolPaciente {
		var err error
		if fechaNac, err = ParseDate(in.FechaNacimiento); err != nil {
			return nil, err
		}
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.Usuario{
		Username:       in.Username,
		Email:          in.Email,
		HashedPassword: hash,
		NombreCompleto: DisplayName(in),
		RolPrincipal:   rol,
		Activo:         true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Usuario{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateEmail
		}
		if err := tx.Model(&models.Usuario{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateUsername
		}

		// el savepoint deja la transacción usable si otra ganó la carrera
		err := tx.Transaction(func(sp *gorm.DB) error {
			return sp.Create(&user).Error
		})
		if err != nil {
			if database.IsUniqueViolation(err) {
				return duplicateUser(tx, in.Email, in.Username)
			}
			return err
		}

		r, err := getOrCreateRole(tx, rol)
		if err != nil {
			return err
		}
		if err := tx.Model(&user).Association("Roles").Append(r); err != nil {
			return err
		}

		switch rol {
		case models.RolPaciente:
			return tx.Create(newPaciente(in, &user, rol, fechaNac)).Error
		case models.RolMedico:
			return tx.Create(newProfesional(in, &user)).Error
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("registrar usuario %s: %w", in.Username, err)
	}

	s.log.Info().Uint("usuario_id", user.ID).Str("rol", rol).Msg("Usuario registrado")
	return &user, nil
}

// duplicateUser identifica la clave que ya existe tras una violación UNIQUE
// en usuario.
func duplicateUser(tx *gorm.DB, email, username string) error {
	var n int64
	if err := tx.Model(&models.Usuario{}).Where("email = ?", email).Count(&n).Error; err != nil || n > 0 {
		return ErrDuplicateEmail
	}
	if err := tx.Model(&models.Usuario{}).Where("username = ?", username).Count(&n).Error; err == nil && n > 0 {
		return ErrDuplicateUsername
	}
	return ErrDuplicateEmail
}

// EnsureUser actualiza la contraseña de un usuario existente (por username) y
// le asegura el rol; si no existe lo registra. Devuelve true si lo creó.
func (s *Service) EnsureUser(ctx context.Context, in RegisterInput) (*models.Usuario, bool, error) {
	in.Username = strings.TrimSpace(in.Username)
	var u models.Usuario
	err := s.db.WithContext(ctx).Where("username = ?", in.Username).First(&u).Error
	if database.IsNotFound(err) {
		created, err := s.Register(ctx, in)
		return created, err == nil, err
	}
	if err != nil {
		return nil, false, fmt.Errorf("buscar usuario %s: %w", in.Username, err)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, false, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&u).Updates(map[string]any{"hashed_password": hash, "activo": true}).Error; err != nil {
			return err
		}
		r, err := getOrCreateRole(tx, NormalizeRole(in.Rol))
		if err != nil {
			return err
		}
		return tx.Model(&u).Association("Roles").Append(r)
	})
	if err != nil {
		return nil, false, fmt.Errorf("actualizar usuario %s: %w", in.Username, err)
	}
	return &u, false, nil
}

// getOrCreateRole busca el rol por nombre y lo crea si no existe.
func getOrCreateRole(tx *gorm.DB, nombre string) (*models.Rol, error) {
	r := models.Rol{Nombre: nombre}
	// savepoint: en Postgres un INSERT fallido aborta la transacción externa
	err := tx.Transaction(func(sp *gorm.DB) error {
		return sp.Where(models.Rol{Nombre: nombre}).FirstOrCreate(&r).Error
	})
	if err == nil {
		return &r, nil
	}
	if !database.IsUniqueViolation(err) {
		return nil, fmt.Errorf("obtener rol %s: %w", nombre, err)
	}
	// creado en paralelo por otra petición
	if err := tx.Where(models.Rol{Nombre: nombre}).First(&r).Error; err != nil {
		return nil, errors.Join(fmt.Errorf("obtener rol %s", nombre), err)
	}
	return &r, nil
}

func newPaciente(in RegisterInput, u *models.Usuario, rol string, fechaNac *time.Time) *models.Paciente {
	correo := optional(in.CorreoElectronico)
	if correo == nil {
		correo = optional(u.Email)
	}
	tipo := optional(in.TipoUsuario)
	if tipo == nil {
		tipo = optional(rol)
	}
	return &models.Paciente{
		TipoDocumento:       optional(in.TipoDocumento),
		NumeroDocumento:     optional(in.NumeroDocumento),
		PrimerApellido:      optional(in.PrimerApellido),
		SegundoApellido:     optional(in.SegundoApellido),
		PrimerNombre:        optional(in.PrimerNombre),
		SegundoNombre:       optional(in.SegundoNombre),
		FechaNacimiento:     models.NuevaFecha(fechaNac),
		Sexo:                optional(in.Sexo),
		DireccionResidencia: optional(in.DireccionResidencia),
		MunicipioCiudad:     optional(in.MunicipioCiudad),
		Departamento:        optional(in.Departamento),
		Telefono:            optional(in.Telefono),
		Celular:             optional(in.Celular),
		CorreoElectronico:   correo,
		Ocupacion:           optional(in.Ocupacion),
		EntidadPertenece:    optional(in.EntidadPertenece),
		RegimenAfiliacion:   optional(in.RegimenAfiliacion),
		TipoUsuario:         tipo,
		UsuarioID:           &u.ID,
	}
}

func newProfesional(in RegisterInput, u *models.Usuario) *models.Profesional {
	return &models.Profesional{
		NombreProfesional: optional(u.NombreCompleto),
		TipoProfesional:   optional(in.TipoProfesional),
		RegistroMedico:    optional(in.RegistroMedico),
		CargoServicio:     optional(in.CargoServicio),
		FirmaProfesional:  optional(in.FirmaProfesional),
		UsuarioID:         &u.ID,
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
