package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503" // foreign_key_violation
	}
	return false
}

// ParseIsolation traduce el nivel de aislamiento de la configuración. Por defecto serializable:
// dos propagaciones concurrentes sobre los mismos registros no pueden leer ambas datos viejos.
func ParseIsolation(s string) pgx.TxIsoLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "read_committed", "read committed":
		return pgx.ReadCommitted
	case "repeatable_read", "repeatable read":
		return pgx.RepeatableRead
	default:
		return pgx.Serializable
	}
}
