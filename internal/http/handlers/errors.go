package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/recipehub/internal/auth"
	"github.com/geocoder89/recipehub/internal/domain/recipe"
	"github.com/geocoder89/recipehub/internal/domain/user"
	"github.com/geocoder89/recipehub/internal/http/middlewares"
	"github.com/geocoder89/recipehub/internal/service"
	"github.com/gin-gonic/gin"
)

// store calls get this long on top of whatever the client allows
const storeTimeout = 3 * time.Second

func requestCtx(ctx *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Request.Context(), storeTimeout)
}

// respondServiceError maps service and domain errors to the error envelope.
func respondServiceError(ctx *gin.Context, err error, fallback string) {
	var ve *service.ValidationError

	switch {
	case errors.As(err, &ve):
		if ve.Rules != nil {
			RespondBadRequest(ctx, "Invalid request body", gin.H{"fields": ve.Rules.Fields()})
			return
		}
		RespondBadRequest(ctx, "Invalid request body", gin.H{"reason": ve.Reason})

	case errors.Is(err, user.ErrEmailTaken):
		RespondConflict(ctx, "email_taken", "Email is already in use.")

	case errors.Is(err, service.ErrInvalidCredentials):
		RespondUnauthorized(ctx, "invalid_credentials", "Email or password is incorrect.")

	case errors.Is(err, service.ErrUnknownSubject):
		RespondUnauthorized(ctx, "unknown_subject", "Account no longer exists.")

	case errors.Is(err, auth.ErrInvalidToken):
		code, msg := middlewares.TokenErrorCode(err)
		RespondUnauthorized(ctx, code, msg)

	case errors.Is(err, recipe.ErrNotFound):
		RespondNotFound(ctx, "Recipe not found")

	default:
		RespondInternal(ctx, err, fallback)
	}
}

// subjectFrom returns the user id RequireAccess stored. Routes mounted
// without the middleware get a 401 rather than a panic.
func subjectFrom(ctx *gin.Context) (string, bool) {
	id, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Authentication required")
	}
	return id, ok
}
