package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/backoffice/backend/internal/interfaces/http/dto"
)

// BodyLimit caps the request body size. Handlers reading past the
// limit get an error from the body reader instead of buffering an
// arbitrarily large upload.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "request body too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
