package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "recipe-api/internal/transport/http/response"
)

// MaxBodyBytes caps the request body. Reads past n fail with *http.MaxBytesError,
// which the action layer turns into 413.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.Request.Body.Close()
			c.Header("Connection", "close")
			resp.Abort(c, resp.CodeTooLarge, "request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
