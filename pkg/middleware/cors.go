package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const DefaultAllowedHeaders = "authorization, x-client-info, apikey, content-type"

// CORSMiddleware allows any origin for the given methods and headers.
// Preflight requests are answered here and never reach the handler.
func CORSMiddleware(methods []string, headers string) gin.HandlerFunc {
	allowMethods := strings.Join(methods, ", ")

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", allowMethods)
		h.Set("Access-Control-Allow-Headers", headers)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}
