package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/billing"
	"github.com/sangkips/gstbill-api/internal/presentation/http/dto/response"
	"github.com/sangkips/gstbill-api/internal/presentation/http/middleware"
	"github.com/sangkips/gstbill-api/pkg/apperror"
	"github.com/sangkips/gstbill-api/pkg/pagination"
)

// GetOperator extracts the authenticated operator from the Gin context
func GetOperator(c *gin.Context) string {
	return middleware.GetOperator(c)
}

// parseID reads a uuid path parameter, answering 400 when it is malformed.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

func pageParams(page, perPage int) *pagination.PaginationParams {
	return &pagination.PaginationParams{Page: page, PerPage: perPage}
}

// respondError writes err using the status its kind implies. Billing rule
// violations are mapped here; everything else goes through apperror.
func respondError(c *gin.Context, err error) {
	mapped := domainError(err)
	if apperror.GetAppError(mapped).Code >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	response.Error(c, mapped)
}

func domainError(err error) error {
	var verr *billing.ValidationError
	switch {
	case errors.As(err, &verr):
		return apperror.NewUnprocessableError(verr.Err.Error(), apperror.FieldError{Field: verr.Field, Message: verr.Err.Error()})
	case errors.Is(err, billing.ErrCartLocked), errors.Is(err, billing.ErrSaveInProgress):
		return apperror.NewConflictError(err.Error())
	case errors.Is(err, billing.ErrLineNotFound):
		return apperror.NewNotFoundError("Line item")
	case errors.Is(err, billing.ErrInvalidQuantity),
		errors.Is(err, billing.ErrInvalidRate),
		errors.Is(err, billing.ErrEmptyCart),
		errors.Is(err, billing.ErrMissingCustomer),
		errors.Is(err, billing.ErrInvalidBillNo):
		return apperror.NewUnprocessableError(err.Error())
	case apperror.IsAppError(err):
		return err
	}
	return apperror.NewAppError(http.StatusInternalServerError, "Internal server error")
}
