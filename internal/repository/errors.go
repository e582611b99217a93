package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgconn"
)

// isUniqueViolation detecta la violación de unicidad de Postgres (23505).
// El fallback por nombre de constraint cubre drivers que no exponen PgError.
func isUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return constraint != "" && strings.Contains(err.Error(), constraint)
}
