package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/barstore/internal/apperrors"
	"github.com/guttosm/barstore/internal/domain/dto"
)

// ErrorHandler turns the last error attached with c.Error into a JSON
// ErrorResponse when the handler did not write a body itself.
//
// Status mapping:
//   - apperrors.KindNotFound   -> 404
//   - apperrors.KindValidation -> 400
//   - anything else            -> 500
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}
	err := c.Errors.Last().Err
	status := StatusFor(err)
	c.JSON(status, dto.NewErrorResponse(http.StatusText(status), err))
}

// StatusFor maps an error to its HTTP status code.
func StatusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError aborts the chain, records err on the context and writes an
// ErrorResponse with the given status.
func AbortWithError(c *gin.Context, status int, msg string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(msg, err))
}
