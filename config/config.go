package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Ambientes soportados
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
	EnvironmentTesting     = "testing"
)

// Drivers de base de datos soportados
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// devSecret solo se usa en desarrollo cuando JWT_SECRET no está definido.
const devSecret = "historia-clinica-dev-secret-no-usar-en-produccion"

// minSecretLen es la longitud mínima del secreto en producción (HS256).
const minSecretLen = 32

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL es requerido")
	ErrInvalidDriver      = errors.New("DB_DRIVER inválido")
	ErrWeakSecret         = errors.New("JWT_SECRET ausente o demasiado corto")
	ErrInvalidTTL         = errors.New("JWT_TTL debe ser mayor que cero")
)

// Config agrupa toda la configuración del proceso. Se carga una vez al
// arrancar y no se modifica después.
type Config struct {
	Port        string        `mapstructure:"PORT"`
	Environment string        `mapstructure:"ENVIRONMENT"`
	DBDriver    string        `mapstructure:"DB_DRIVER"`
	DatabaseURL string        `mapstructure:"DATABASE_URL"`
	DBSchema    string        `mapstructure:"DB_SCHEMA"`
	DBMaxConns  int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32         `mapstructure:"DB_MIN_CONNS"`
	DBDebug     bool          `mapstructure:"DB_DEBUG"`
	AutoMigrate bool          `mapstructure:"AUTO_MIGRATE"`
	JWTSecret   string        `mapstructure:"JWT_SECRET"`
	JWTTTL      time.Duration `mapstructure:"JWT_TTL"`
	LogLevel    string        `mapstructure:"LOG_LEVEL"`
	CORSOrigins string        `mapstructure:"CORS_ORIGINS"`
	BodyLimit   int           `mapstructure:"BODY_LIMIT"`
}

var keys = []string{
	"PORT", "ENVIRONMENT", "DB_DRIVER", "DATABASE_URL", "DB_SCHEMA",
	"DB_MAX_CONNS", "DB_MIN_CONNS", "DB_DEBUG", "AUTO_MIGRATE",
	"JWT_SECRET", "JWT_TTL", "LOG_LEVEL", "CORS_ORIGINS", "BODY_LIMIT",
}

// Load lee el archivo .env (si existe) y las variables de entorno.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No se pudo cargar el archivo .env, se usan variables de entorno")
	}
	return FromViper(viper.New())
}

// FromViper aplica valores por defecto sobre v y decodifica la configuración.
func FromViper(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()

	v.SetDefault("PORT", "3000")
	v.SetDefault("ENVIRONMENT", EnvironmentDevelopment)
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_SCHEMA", "historia_clinica")
	v.SetDefault("DB_MAX_CONNS", 30)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("DB_DEBUG", false)
	v.SetDefault("AUTO_MIGRATE", false)
	v.SetDefault("JWT_TTL", 30*time.Minute)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("BODY_LIMIT", 1<<20)

	// Unmarshal solo ve las variables de entorno que fueron enlazadas
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decodificar configuración: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))

	if cfg.JWTSecret == "" && cfg.IsDev() {
		log.Warn().Msg("JWT_SECRET no definido, usando secreto de desarrollo")
		cfg.JWTSecret = devSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate verifica que la configuración sea segura para arrancar.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.DBDriver != DriverPostgres && c.DBDriver != DriverSQLite {
		return fmt.Errorf("%w: %q", ErrInvalidDriver, c.DBDriver)
	}
	if c.JWTTTL <= 0 {
		return ErrInvalidTTL
	}
	if c.JWTSecret == "" || (c.IsProduction() && len(c.JWTSecret) < minSecretLen) {
		return ErrWeakSecret
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.Environment == EnvironmentDevelopment
}

// IsProduction indica si el proceso corre en producción.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

// Origins devuelve CORS_ORIGINS en el formato que espera fiber.
func (c *Config) Origins() string {
	parts := strings.Split(c.CORSOrigins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ",")
}
