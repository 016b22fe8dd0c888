package controllers

import (
	"errors"
	"net/http"

	"booking-api/domain"
	"booking-api/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// writeError traduce los errores de dominio a su status HTTP.
// Cualquier otro error es un 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: string(domain.KindNotFound), Message: err.Error()})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: string(domain.KindValidation), Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: string(domain.KindDuplicate), Message: err.Error()})
	case errors.Is(err, domain.ErrNotDeletable):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: string(domain.KindNotDeletable), Message: err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: "Internal server error",
		})
	}
}

// parseID lee un parámetro UUID de la URL. Si es inválido ya respondió 400.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid " + param,
		})
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON parsea el body; si falla responde 400
func bindJSON(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   string(domain.KindValidation),
			Message: err.Error(),
		})
		return false
	}
	return true
}

func errIsValidation(err error) bool {
	return errors.Is(err, domain.ErrValidation)
}
