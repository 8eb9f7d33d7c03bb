package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/hunabku/comanda/internal/domain/errors"
	"github.com/hunabku/comanda/internal/server/http/dto"
	"github.com/hunabku/comanda/internal/server/http/middleware"
)

// CurrentStaffID extracts the authenticated staff identifier from context.
func CurrentStaffID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.StaffIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// writeError maps domain errors onto HTTP statuses with a uniform body.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
	case errors.Is(err, domainErrors.ErrInvalidTransition):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "invalid status transition"})
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "already exists"})
	case errors.Is(err, domainErrors.ErrUnknownStatus):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "unknown status"})
	case errors.Is(err, domainErrors.ErrProductUnavailable):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "product unavailable"})
	case errors.Is(err, domainErrors.ErrEmptyCart),
		errors.Is(err, domainErrors.ErrInvalidTable),
		errors.Is(err, domainErrors.ErrInvalidQuantity),
		errors.Is(err, domainErrors.ErrInvalidProduct):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid credentials"})
	case errors.Is(err, domainErrors.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "store unavailable", Retryable: true})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}
