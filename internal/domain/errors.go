package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio del motor de conciliación. Las capas externas los
// distinguen con errors.Is; el texto es el mensaje visible para el usuario.
var (
	// ErrNotFound el registro referenciado no existe.
	ErrNotFound = errors.New("registro no encontrado")
	// ErrDuplicateMapping violación de unicidad sobre una clave de búsqueda
	// de maestros, traducida desde el error 23505 de Postgres.
	ErrDuplicateMapping = errors.New("ya existe un registro con esos datos en los maestros")
	// ErrUnknownCanonicalCode el código canónico indicado no existe en el
	// catálogo SIC.
	ErrUnknownCanonicalCode = errors.New("el código no existe en el catálogo SIC")
	// ErrValidation el payload de importación no tiene la forma esperada.
	ErrValidation = errors.New("payload inválido")
)

// NotFoundf construye un ErrNotFound con detalle de entidad e identificador.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// Validationf construye un ErrValidation con detalle.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}
