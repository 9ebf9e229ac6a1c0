package api

import (
	"errors"
	"net/http"

	"cmvboard/internal/models"
	"cmvboard/internal/shopping"

	"github.com/gin-gonic/gin"
)

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrInvalidPrice),
		errors.Is(err, models.ErrInvalidDirection):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnknownIngredient),
		errors.Is(err, models.ErrUnknownRecipe),
		errors.Is(err, models.ErrUnknownSupplier),
		errors.Is(err, models.ErrUnknownRecord),
		errors.Is(err, shopping.ErrUnknownItem):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateID),
		errors.Is(err, models.ErrAuditInProgress),
		errors.Is(err, models.ErrAuditNotStarted):
		return http.StatusConflict
	case errors.Is(err, models.ErrInsufficientPeriodData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrAdvisoryUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
