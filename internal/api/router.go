package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/atelier-studio/registry-api/docs"
	"github.com/atelier-studio/registry-api/internal/api/handler"
	"github.com/atelier-studio/registry-api/internal/api/middleware"
	"github.com/atelier-studio/registry-api/internal/core/domain"
	"github.com/atelier-studio/registry-api/internal/core/ports"
	"github.com/atelier-studio/registry-api/internal/core/service"
)

// RouterDeps carries everything the router needs. Redis and Mongo may be nil;
// health reporting handles their absence.
type RouterDeps struct {
	Registry   ports.Registry
	Redis      *redis.Client
	Mongo      *mongo.Database
	JWTSecret  string
	SessionTTL time.Duration
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("registry"))

	// --- Services ---
	authService := service.NewAuthService(deps.Registry, deps.JWTSecret, deps.SessionTTL, deps.Log)
	orderService := service.NewOrderService(deps.Registry, deps.Log)
	inventoryService := service.NewInventoryService(deps.Registry, deps.Log)
	quoteService := service.NewQuoteService(deps.Registry, deps.Log)
	userService := service.NewUserService(deps.Registry, deps.Log)
	analyticsService := service.NewAnalyticsService(deps.Registry)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	orderHandler := handler.NewOrderHandler(orderService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	quoteHandler := handler.NewQuoteHandler(quoteService)
	userHandler := handler.NewUserHandler(userService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	registryHandler := handler.NewRegistryHandler(deps.Registry)
	storefrontHandler := handler.NewStorefrontHandler(inventoryService, quoteService, orderService)

	// --- Public routes ---
	e.POST("/auth/login", authHandler.Login)
	e.GET("/storefront/catalog", storefrontHandler.Catalog)
	e.POST("/storefront/orders", storefrontHandler.CreateOrder)

	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(deps.Registry, deps.Redis, deps.Mongo).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated console routes ---
	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret))

	v1.GET("/orders", orderHandler.List)
	v1.POST("/orders", orderHandler.Create)
	v1.GET("/orders/:id", orderHandler.Get)
	v1.PATCH("/orders/:id/status", orderHandler.ChangeStatus)
	v1.DELETE("/orders/:id", orderHandler.Delete)

	v1.GET("/products", inventoryHandler.List)
	v1.POST("/products", inventoryHandler.Create)
	v1.PUT("/products/:id", inventoryHandler.Update)
	v1.POST("/products/:id/stock", inventoryHandler.AdjustStock)
	v1.DELETE("/products/:id", inventoryHandler.Delete)

	v1.GET("/quotes", quoteHandler.List)
	v1.POST("/quotes", quoteHandler.Create)
	v1.PUT("/quotes/:id", quoteHandler.Update)
	v1.POST("/quotes/:id/activate", quoteHandler.Activate)
	v1.DELETE("/quotes/:id", quoteHandler.Delete)

	v1.GET("/customers", analyticsHandler.Customers)
	v1.GET("/analytics", analyticsHandler.Report)
	v1.GET("/analytics/overview", analyticsHandler.Overview)

	v1.GET("/registry/status", registryHandler.Status)

	// --- Admin-only routes ---
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	v1.POST("/registry/reload", registryHandler.Reload, adminOnly)

	users := v1.Group("/users", adminOnly)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	return e
}
