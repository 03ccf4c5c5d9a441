package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lizet96/historia-clinica/config"
	"github.com/lizet96/historia-clinica/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openMemory(t *testing.T) *Database {
	t.Helper()
	cfg := &config.Config{DBDriver: config.DriverSQLite, DatabaseURL: ":memory:"}
	d, err := Connect(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

func TestMigrate_CreatesTablesAndRoles(t *testing.T) {
	d := openMemory(t)
	ctx := context.Background()

	require.NoError(t, d.Migrate(ctx))
	// idempotente
	require.NoError(t, d.Migrate(ctx))

	for _, tabla := range []string{"usuario", "rol", "usuario_rol", "paciente", "profesional", "atencion", "cierre_historia"} {
		assert.True(t, d.Gorm.Migrator().HasTable(tabla), "missing table %s", tabla)
	}

	var total int64
	require.NoError(t, d.Gorm.Model(&models.Rol{}).Count(&total).Error)
	assert.Equal(t, int64(len(models.RolesBase)), total)
}

func TestPing(t *testing.T) {
	d := openMemory(t)
	assert.NoError(t, d.Ping(context.Background()))
}

func TestConnect_InvalidDriver(t *testing.T) {
	_, err := Connect(context.Background(), &config.Config{DBDriver: "mysql"}, zerolog.Nop())
	assert.ErrorIs(t, err, config.ErrInvalidDriver)
}

func TestConnect_InvalidSchema(t *testing.T) {
	cfg := &config.Config{DBDriver: config.DriverPostgres, DBSchema: "historia; DROP", DatabaseURL: "postgres://x"}
	_, err := Connect(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	d := openMemory(t)
	require.NoError(t, d.Migrate(context.Background()))

	err := d.Gorm.Create(&models.Rol{Nombre: models.RolMedico}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(gorm.ErrRecordNotFound))
}

func TestIsNotFound(t *testing.T) {
	d := openMemory(t)
	require.NoError(t, d.Migrate(context.Background()))

	var u models.Usuario
	err := d.Gorm.First(&u, 999).Error
	assert.True(t, IsNotFound(err))
	assert.False(t, IsNotFound(nil))
}
