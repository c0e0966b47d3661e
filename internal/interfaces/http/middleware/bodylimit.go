package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/commtrack/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size.
// Streaming requests without a Content-Length still get capped by the
// wrapped reader.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse("FILE_TOO_LARGE", "Request body exceeds maximum allowed size"))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
