package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/geocoder89/recipehub/internal/auth"
	"github.com/geocoder89/recipehub/internal/cache"
	"github.com/geocoder89/recipehub/internal/domain/recipe"
	"github.com/geocoder89/recipehub/internal/domain/user"
	"github.com/geocoder89/recipehub/internal/http/middlewares"
	"github.com/geocoder89/recipehub/internal/observability"
	"github.com/geocoder89/recipehub/internal/service"
	"github.com/gin-gonic/gin"
)

type AccountService interface {
	SignUp(ctx context.Context, req user.SignUpRequest) (user.User, error)
	Login(ctx context.Context, req user.LoginRequest) (service.Session, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Profile(ctx context.Context, subject string) (user.User, error)
	UpdateProfile(ctx context.Context, subject string, req user.UpdateProfileRequest) (user.User, error)
	DeleteProfile(ctx context.Context, subject string) error
}

type OwnedRecipeLister interface {
	ListOwned(ctx context.Context, ownerID string, page recipe.Page) ([]recipe.Recipe, error)
}

type AuthHandler struct {
	accounts  AccountService
	recipes   OwnedRecipeLister
	listCache listPages
	prom      *observability.Prom
}

// listCache and prom may be nil.
func NewAuthHandler(accounts AccountService, recipes OwnedRecipeLister, listCache cache.Cache, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{
		accounts:  accounts,
		recipes:   recipes,
		listCache: listPages{c: listCache},
		prom:      prom,
	}
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	FullName     string `json:"user_fullname"`
	Email        string `json:"user_email"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req user.SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestCtx(ctx)
	defer cancel()

	u, err := h.accounts.SignUp(cctx, req)

	if err != nil {
		h.prom.RecordAuth("signup", outcome(err))
		respondServiceError(ctx, err, "Could not create user")
		return
	}

	h.prom.RecordAuth("signup", "ok")
	ctx.JSON(http.StatusCreated, u)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestCtx(ctx)
	defer cancel()

	sess, err := h.accounts.Login(cctx, req)

	if err != nil {
		h.prom.RecordAuth("login", outcome(err))
		respondServiceError(ctx, err, "Could not log in")
		return
	}

	h.prom.RecordAuth("login", "ok")
	ctx.JSON(http.StatusOK, loginResponse{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		FullName:     sess.User.FullName,
		Email:        sess.User.Email,
	})
}

// Refresh takes the refresh token as a bearer credential and returns a new
// access token.
func (h *AuthHandler) Refresh(ctx *gin.Context) {
	raw, ok := middlewares.BearerToken(ctx)

	if !ok {
		h.prom.RecordAuth("refresh", "missing_token")
		RespondUnauthorized(ctx, "unauthorized", "Missing refresh token")
		return
	}

	cctx, cancel := requestCtx(ctx)
	defer cancel()

	access, err := h.accounts.Refresh(cctx, raw)

	if err != nil {
		h.prom.RecordAuth("refresh", outcome(err))
		respondServiceError(ctx, err, "Could not refresh session")
		return
	}

	h.prom.RecordAuth("refresh", "ok")
	ctx.JSON(http.StatusOK, gin.H{"access_token": access})
}

// Logout holds no server state: tokens stay valid until they expire and the
// client is expected to discard them.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	ctx.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	subject, ok := subjectFrom(ctx)
	if !ok {
		return
	}

	cctx, cancel := requestCtx(ctx)
	defer cancel()

	u, err := h.accounts.Profile(cctx, subject)

	if err != nil {
		respondServiceError(ctx, err, "Could not load profile")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *AuthHandler) UpdateMe(ctx *gin.Context) {
	subject, ok := subjectFrom(ctx)
	if !ok {
		return
	}

	var req user.UpdateProfileRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestCtx(ctx)
	defer cancel()

	u, err := h.accounts.UpdateProfile(cctx, subject, req)

	if err != nil {
		respondServiceError(ctx, err, "Could not update profile")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *AuthHandler) DeleteMe(ctx *gin.Context) {
	subject, ok := subjectFrom(ctx)
	if !ok {
		return
	}

	cctx, cancel := requestCtx(ctx)
	defer cancel()

	if err := h.accounts.DeleteProfile(cctx, subject); err != nil {
		respondServiceError(ctx, err, "Could not delete account")
		return
	}

	// the account's recipes went with it
	h.listCache.invalidate(cctx)

	ctx.Status(http.StatusNoContent)
}

func (h *AuthHandler) MyRecipes(ctx *gin.Context) {
	subject, ok := subjectFrom(ctx)
	if !ok {
		return
	}

	page := pageFromQuery(ctx)

	cctx, cancel := requestCtx(ctx)
	defer cancel()

	items, err := h.recipes.ListOwned(cctx, subject, page)

	if err != nil {
		respondServiceError(ctx, err, "Could not list recipes")
		return
	}

	ctx.JSON(http.StatusOK, newRecipeList(items, page))
}

// outcome is the metric label for a failed auth call.
func outcome(err error) string {
	var ve *service.ValidationError

	switch {
	case errors.As(err, &ve):
		return "invalid_request"
	case errors.Is(err, user.ErrEmailTaken):
		return "email_taken"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, service.ErrUnknownSubject):
		return "unknown_subject"
	case errors.Is(err, auth.ErrInvalidToken):
		code, _ := middlewares.TokenErrorCode(err)
		return code
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
