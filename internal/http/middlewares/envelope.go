package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
	Details   any    `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error APIError `json:"error"`
}

func RequestIDFrom(c *gin.Context) string {
	if id := c.GetString(CtxRequestID); id != "" {
		return id
	}
	return c.GetHeader(requestIDHeader)
}

// AbortWithEnvelope writes {"error":{...}} and stops the chain. Every 401
// carries a Bearer challenge naming the error code.
func AbortWithEnvelope(c *gin.Context, status int, code, message string, details any) {
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", `Bearer error="`+code+`"`)
	}

	c.AbortWithStatusJSON(status, errorEnvelope{Error: APIError{
		Code:      code,
		Message:   message,
		RequestID: RequestIDFrom(c),
		Details:   details,
	}})
}

func AbortWithError(c *gin.Context, status int, code, message string) {
	AbortWithEnvelope(c, status, code, message, nil)
}
