// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"rentware/internal/domain/auth"
	"rentware/internal/domain/catalogs/customer"
	"rentware/internal/domain/catalogs/event"
	"rentware/internal/domain/catalogs/product"
	"rentware/internal/domain/catalogs/warehouse"
	"rentware/internal/domain/rental"
	"rentware/internal/domain/reports"
	"rentware/internal/domain/stock"
	"rentware/internal/infrastructure/http/v1/handlers"
	"rentware/internal/infrastructure/http/v1/middleware"
	"rentware/internal/infrastructure/storage/postgres"
	"rentware/internal/infrastructure/storage/postgres/auth_repo"
	"rentware/internal/infrastructure/storage/postgres/catalog_repo"
	"rentware/internal/infrastructure/storage/postgres/rental_repo"
	"rentware/internal/infrastructure/storage/postgres/report_repo"
	"rentware/internal/infrastructure/storage/postgres/stock_repo"
	"rentware/pkg/codegen"
	"rentware/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Pool      *postgres.Pool
	TxManager *postgres.TxManager
	Logger    *logger.Logger

	JWTService *auth.JWTService
	AuthConfig auth.ServiceConfig

	// Codes generates order codes from sys_sequences.
	Codes *codegen.Generator

	Version string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Order matters: recovery outermost, then tracing, logging and the
	// error renderer.
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger.WithComponent("http")))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// Repositories share the injected TxManager; services join any
	// transaction already carried by the request context.
	userRepo := auth_repo.NewUserRepo(cfg.TxManager)
	tokenRepo := auth_repo.NewTokenRepo(cfg.TxManager)
	authService := auth.NewService(userRepo, tokenRepo, cfg.TxManager, cfg.JWTService, cfg.AuthConfig)

	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	warehouseRepo := catalog_repo.NewWarehouseRepo(cfg.TxManager)
	customerRepo := catalog_repo.NewCustomerRepo(cfg.TxManager)
	eventRepo := catalog_repo.NewEventRepo(cfg.TxManager)

	productService := product.NewService(productRepo, cfg.TxManager)
	warehouseService := warehouse.NewService(warehouseRepo, cfg.TxManager)
	customerService := customer.NewService(customerRepo, cfg.TxManager)
	eventService := event.NewService(eventRepo, cfg.TxManager)

	ledgerRepo := stock_repo.NewLedgerRepo(cfg.TxManager)
	engine := stock.NewEngine(productRepo, ledgerRepo, warehouseService, cfg.TxManager)

	orderRepo := rental_repo.NewOrderRepo(cfg.TxManager)
	rentalService := rental.NewService(orderRepo, engine, cfg.Codes, cfg.TxManager)

	reportRepo := report_repo.NewReportRepo(cfg.TxManager)
	reportService := reports.NewService(reportRepo)

	apiV1 := router.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(base, authService)
		publicAuth := apiV1.Group("/auth")
		protectedAuth := apiV1.Group("/auth")
		protectedAuth.Use(middleware.Auth(cfg.JWTService))
		authHandler.RegisterRoutes(publicAuth, protectedAuth)

		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.JWTService))

		registerUserRoutes(protected, base, authService)
		registerCatalogRoutes(protected, base, productService, warehouseService, customerService, eventService)
		registerStockRoutes(protected, base, engine, productService)
		registerOrderRoutes(protected, base, rentalService)
		registerReportRoutes(protected, base, reportService)
	}

	return router
}

func registerUserRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, service *auth.Service) {
	handler := handlers.NewUserHandler(base, service)

	adminOnly := middleware.RequireRole(string(auth.RoleAdmin))

	users := rg.Group("/users")
	users.POST("", adminOnly, handler.Register)
	users.GET("", adminOnly, handler.List)
	users.GET("/:id", adminOnly, handler.Get)
	users.POST("/:id/active", adminOnly, handler.SetActive)
}

func registerCatalogRoutes(
	rg *gin.RouterGroup,
	base *handlers.BaseHandler,
	products *product.Service,
	warehouses *warehouse.Service,
	customers *customer.Service,
	events *event.Service,
) {
	catalogs := rg.Group("/catalog")

	{
		handler := handlers.NewProductHandler(base, products)
		g := catalogs.Group("/products")
		RegisterCatalogRoutes(g, handler)
		g.GET("", handler.List)
		g.GET("/low-stock", handler.LowStock)
		g.POST("/:id/condition", handler.SetCondition)
	}

	{
		handler := handlers.NewWarehouseHandler(base, warehouses)
		g := catalogs.Group("/warehouses")
		RegisterCatalogRoutes(g, handler)
		g.GET("", handler.List)
		g.GET("/product-counts", handler.ProductCounts)
		g.DELETE("/:id", handler.Delete)
	}

	{
		handler := handlers.NewCustomerHandler(base, customers)
		g := catalogs.Group("/customers")
		RegisterCatalogRoutes(g, handler)
		g.GET("", handler.List)
	}

	{
		handler := handlers.NewEventHandler(base, events)
		g := catalogs.Group("/events")
		RegisterCatalogRoutes(g, handler)
		g.GET("", handler.List)
		g.GET("/agenda", handler.Agenda)
		g.GET("/by-customer/:customerId", handler.ByCustomer)
	}
}

func registerStockRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, engine *stock.Engine, products *product.Service) {
	handler := handlers.NewStockHandler(base, engine, products)

	g := rg.Group("/stock")
	g.POST("/movements", handler.Apply)
	g.GET("/movements", handler.List)
	g.GET("/movements/:id", handler.Get)
	g.GET("/products/:id/consistency", handler.Consistency)
}

func registerOrderRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, service *rental.Service) {
	handler := handlers.NewRentalHandler(base, service)

	g := rg.Group("/orders")
	g.POST("", handler.Create)
	g.GET("", handler.List)
	g.GET("/:id", handler.Get)
	g.GET("/by-code/:code", handler.GetByCode)
	g.PUT("/:id", handler.Update)
	g.PUT("/:id/items", handler.ReplaceItems)
	g.POST("/:id/confirm", handler.Confirm)
	g.POST("/:id/return", handler.Return)
	g.POST("/:id/cancel", handler.Cancel)
}

func registerReportRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, service *reports.Service) {
	handler := handlers.NewReportsHandler(base, service)

	g := rg.Group("/reports")
	g.GET("/dashboard", handler.Dashboard)
	g.GET("/most-rented", handler.MostRented)
	g.GET("/movement-summary", handler.MovementSummary)
	g.GET("/condition-breakdown", handler.ConditionBreakdown)
}
