package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/geocoder89/recipehub/internal/actorctx"
	"github.com/geocoder89/recipehub/internal/auth"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Validate(token string, expected auth.TokenType) (string, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// RequireAccess admits requests carrying a valid access token and records
// its subject on both the gin context and the request context.
func (m *AuthMiddleware) RequireAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := BearerToken(c)
		if !ok {
			AbortWithError(c, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
			return
		}

		userID, err := m.jwt.Validate(raw, auth.TypeAccess)
		if err != nil {
			code, msg := TokenErrorCode(err)
			AbortWithError(c, http.StatusUnauthorized, code, msg)
			return
		}

		c.Set(CtxUserID, userID)
		c.Request = c.Request.WithContext(actorctx.WithUserID(c.Request.Context(), userID))

		c.Next()
	}
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(c *gin.Context) (string, bool) {
	scheme, raw, found := strings.Cut(strings.TrimSpace(c.GetHeader("Authorization")), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

func TokenErrorCode(err error) (code, message string) {
	switch {
	case errors.Is(err, auth.ErrExpired):
		return "token_expired", "Token has expired"
	case errors.Is(err, auth.ErrWrongType):
		return "wrong_token_type", "Wrong token type for this endpoint"
	default:
		return "invalid_token", "Invalid token"
	}
}

// Optional helper so handlers don't need to know the magic keys.
func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
