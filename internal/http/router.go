package http

import (
	"log/slog"
	"net/http"

	"github.com/Afzalsd/Ecom-SAAS/internal/auth"
	"github.com/Afzalsd/Ecom-SAAS/internal/cache"
	"github.com/Afzalsd/Ecom-SAAS/internal/config"
	"github.com/Afzalsd/Ecom-SAAS/internal/domain/user"
	"github.com/Afzalsd/Ecom-SAAS/internal/http/handlers"
	"github.com/Afzalsd/Ecom-SAAS/internal/http/middlewares"
	"github.com/Afzalsd/Ecom-SAAS/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Deps carries the router's collaborators so tests can swap stores for
// in-memory fakes.
type Deps struct {
	Users    handlers.UserStore
	Products handlers.ProductStore
	Cache    *cache.ProductCache
	Prom     *observability.Prom
	Registry *prometheus.Registry
	Ping     func() error
}

func NewRouter(log *slog.Logger, cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" && cfg.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("storefront-api"))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())

	if deps.Prom != nil {
		r.Use(deps.Prom.Middleware())
	}

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL())
	guard := middlewares.NewAuthMiddleware(jwtManager)

	authHandler := handlers.NewAuthHandler(deps.Users, jwtManager, log)
	productsHandler := handlers.NewProductsHandler(deps.Products, deps.Cache, deps.Prom, log)
	healthHandler := handlers.NewHealthHandler(deps.Ping)

	r.GET("/", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "Welcome to the Red Rabbit API")
	})
	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/readyz", healthHandler.Readyz)

	if deps.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	// brute-force protection on the credential endpoints
	authLimiter := middlewares.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)

	users := r.Group("/api/users")
	{
		users.POST("/register", authLimiter.Middleware(middlewares.KeyByIP), authHandler.Register)
		users.POST("/login", authLimiter.Middleware(middlewares.KeyByIP), authHandler.Login)
		users.GET("/profile", guard.RequireAuth(), authHandler.Profile)
	}

	products := r.Group("/api/products")
	{
		products.GET("", productsHandler.ListProducts)
		products.GET("/:id", productsHandler.GetProductByID)
		products.POST("", guard.RequireAuth(), productsHandler.CreateProduct)
		products.PUT("/:id", guard.RequireAuth(), productsHandler.UpdateProduct)
		products.DELETE("/:id", guard.RequireAuth(), guard.RequireRole(user.RoleAdmin), productsHandler.DeleteProduct)
	}

	return r
}
