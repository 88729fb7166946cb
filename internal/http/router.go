package http

import (
	"log/slog"

	"github.com/geocoder89/recipehub/internal/auth"
	"github.com/geocoder89/recipehub/internal/cache"
	"github.com/geocoder89/recipehub/internal/config"
	"github.com/geocoder89/recipehub/internal/http/handlers"
	"github.com/geocoder89/recipehub/internal/http/middlewares"
	"github.com/geocoder89/recipehub/internal/observability"
	"github.com/geocoder89/recipehub/internal/service"
	"github.com/geocoder89/recipehub/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const defaultMaxBodyBytes = 1 << 20

// Deps is everything the router wires together. Cache, Prom and Gatherer
// are optional.
type Deps struct {
	Cfg     config.Config
	Users   service.UserStore
	Recipes service.RecipeStore
	Tokens  *auth.Manager

	// nil disables list caching
	Cache cache.Cache

	// both nil disables HTTP metrics and /metrics
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer

	// pinged by /readyz
	Checks []handlers.Check
}

func NewRouter(log *slog.Logger, d Deps) *gin.Engine {
	if d.Cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	handlers.ConfigureBinding()

	serviceName := d.Cfg.ServiceName
	if serviceName == "" {
		serviceName = "recipehub"
	}

	maxBody := d.Cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	// middleware; recovery sits inside the logger so panics are logged as 500s
	r.Use(otelgin.Middleware(serviceName))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(gin.Recovery())
	r.Use(middlewares.SecurityHeaders(middlewares.SecurityOptions{
		DocsPrefix: "/docs",
		HSTS:       d.Cfg.Env == "prod",
	}))
	r.Use(middlewares.CORSMiddleware(d.Cfg.CORSAllowedOrigins))

	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	r.Use(middlewares.MaxBodyBytes(maxBody))
	r.Use(middlewares.RequireJSON())

	// health
	h := handlers.NewHealthHandler(d.Checks...)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	// docs
	docs := handlers.NewDocsHandler("RecipeHub API Docs", "/docs/openapi.yaml")
	r.GET("/docs", docs.UI)
	r.GET("/docs/openapi.yaml", docs.Document)

	// services share one validator so struct metadata is cached once
	v := validation.New()
	accounts := service.NewAccounts(d.Users, d.Tokens, v)
	recipes := service.NewRecipes(d.Recipes, v)

	authMW := middlewares.NewAuthMiddleware(d.Tokens)
	authHandler := handlers.NewAuthHandler(accounts, recipes, d.Cache, d.Prom)
	recipesHandler := handlers.NewRecipesHandlerWithCache(recipes, d.Cache, d.Prom)

	authGroup := r.Group("/auth")
	authGroup.POST("/signup", authHandler.SignUp)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)

	me := authGroup.Group("/me", authMW.RequireAccess())
	me.GET("", authHandler.Me)
	me.PUT("", authHandler.UpdateMe)
	me.DELETE("", authHandler.DeleteMe)
	me.GET("/recipes", authHandler.MyRecipes)

	recipesGroup := r.Group("/recipes")
	recipesGroup.GET("/", recipesHandler.ListRecipes)

	owned := recipesGroup.Group("", authMW.RequireAccess())
	owned.POST("/", recipesHandler.CreateRecipe)
	owned.GET("/:id", recipesHandler.GetRecipeByID)
	owned.PUT("/:id", recipesHandler.UpdateRecipe)
	owned.DELETE("/:id", recipesHandler.DeleteRecipe)

	return r
}
