package api

import (
	"errors"
	"net/http"

	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/domain"

	"github.com/gin-gonic/gin"
)

// abortWithError traduce los errores de dominio a códigos HTTP. Todo lo que
// no sea un error de dominio conocido se reporta como 500.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateMapping):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUnknownCanonicalCode):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
