package database

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/lizet96/historia-clinica/config"
	"github.com/lizet96/historia-clinica/models"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var schemaNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Database agrupa el pool de conexiones y la sesión de gorm
type Database struct {
	Gorm   *gorm.DB
	Pool   *pgxpool.Pool // nil con sqlite
	Driver string
	Schema string
	log    zerolog.Logger
}

// Connect abre la base de datos según cfg.DBDriver
func Connect(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Database, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return connectPostgres(ctx, cfg, log)
	case config.DriverSQLite:
		return connectSQLite(cfg, log)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidDriver, cfg.DBDriver)
	}
}

func connectPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Database, error) {
	if !schemaNameRegex.MatchString(cfg.DBSchema) {
		return nil, fmt.Errorf("nombre de esquema inválido: %q", cfg.DBSchema)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsear DATABASE_URL: %w", err)
	}
	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MinConns = cfg.DBMinConns
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute
	// El coordinador Citus va detrás de un pooler que no soporta sentencias preparadas
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("crear pool de conexiones: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var version string
	if err := pool.QueryRow(pingCtx, "SELECT version()").Scan(&version); err != nil {
		pool.Close()
		return nil, fmt.Errorf("probar conexión: %w", err)
	}
	log.Info().Str("version", version).Msg("Conectado a la base de datos")

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn: stdlib.OpenDBFromPool(pool),
	}), gormConfig(cfg, cfg.DBSchema+"."))
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("abrir gorm: %w", err)
	}

	return &Database{Gorm: gdb, Pool: pool, Driver: config.DriverPostgres, Schema: cfg.DBSchema, log: log}, nil
}

func connectSQLite(cfg *config.Config, log zerolog.Logger) (*Database, error) {
	gdb, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), gormConfig(cfg, ""))
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	// Una sola conexión: cada conexión a ":memory:" sería una base distinta
	sqlDB.SetMaxOpenConns(1)

	log.Info().Str("dsn", cfg.DatabaseURL).Msg("Usando sqlite")
	return &Database{Gorm: gdb, Driver: config.DriverSQLite, log: log}, nil
}

func gormConfig(cfg *config.Config, tablePrefix string) *gorm.Config {
	level := logger.Silent
	if cfg.DBDebug {
		level = logger.Info
	}
	return &gorm.Config{
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   tablePrefix,
			SingularTable: true,
		},
		Logger: logger.Default.LogMode(level),
	}
}

// Migrate crea el esquema, las tablas y los roles base
func (d *Database) Migrate(ctx context.Context) error {
	if d.Driver == config.DriverPostgres {
		if _, err := d.Pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", d.Schema)); err != nil {
			return fmt.Errorf("crear esquema %s: %w", d.Schema, err)
		}
	}

	db := d.Gorm.WithContext(ctx)
	tablas := []any{
		&models.Rol{}, &models.Usuario{}, &models.Paciente{}, &models.Profesional{},
		&models.Atencion{}, &models.CierreHistoria{},
	}
	for _, m := range tablas {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}

	for nombre := range models.RolesBase {
		rol := models.Rol{Nombre: nombre}
		if err := db.Where(models.Rol{Nombre: nombre}).FirstOrCreate(&rol).Error; err != nil {
			return fmt.Errorf("sembrar rol %s: %w", nombre, err)
		}
	}
	d.log.Info().Int("tablas", len(tablas)).Msg("Migración completada")
	return nil
}

// Ping verifica que la base de datos responda
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close cierra la sesión y el pool de conexiones
func (d *Database) Close() {
	if sqlDB, err := d.Gorm.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if d.Pool != nil {
		d.Pool.Close()
	}
	d.log.Info().Msg("Pool de conexiones cerrado")
}
