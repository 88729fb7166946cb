package handlers

import (
	"net/http"

	"github.com/geocoder89/recipehub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type APIError = middlewares.APIError

// RespondError writes the error envelope and stops the handler chain.
func RespondError(ctx *gin.Context, status int, code, message string, details any) {
	middlewares.AbortWithEnvelope(ctx, status, code, message, details)
}

func RespondBadRequest(ctx *gin.Context, message string, details any) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondUnauthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondConflict(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusConflict, code, message, nil)
}

// RespondInternal hides err from the caller and attaches it to the gin
// context for the request logger.
func RespondInternal(ctx *gin.Context, err error, message string) {
	if err != nil {
		_ = ctx.Error(err)
	}
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}
