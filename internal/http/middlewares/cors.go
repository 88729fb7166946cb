package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	corsMethods = strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
	}, ",")
	corsHeaders = "Authorization,Content-Type,If-None-Match,X-Request-Id"
	corsExposed = "ETag,X-Request-Id"
)

// CORSMiddleware echoes allowed origins only. Bearer tokens are sent
// explicitly, so Allow-Credentials is never set.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[strings.TrimRight(origin, "/")] = true
	}

	return func(ctx *gin.Context) {
		h := ctx.Writer.Header()
		origin := ctx.GetHeader("Origin")

		if origin != "" {
			h.Add("Vary", "Origin")

			if allowed[origin] {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Expose-Headers", corsExposed)
			}
		}

		if ctx.Request.Method != http.MethodOptions {
			ctx.Next()
			return
		}

		// preflight
		if allowed[origin] {
			h.Set("Access-Control-Allow-Methods", corsMethods)
			h.Set("Access-Control-Allow-Headers", corsHeaders)
			h.Set("Access-Control-Max-Age", "600")
		}
		ctx.AbortWithStatus(http.StatusNoContent)
	}
}
