package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueViolation es el SQLSTATE de Postgres para claves duplicadas
const uniqueViolation = "23505"

// IsUniqueViolation indica si err proviene de una restricción UNIQUE.
// gorm traduce el error cuando TranslateError está activo; el PgError
// cubre los errores que llegan sin traducir.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// IsNotFound indica si err es un registro inexistente de gorm
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
