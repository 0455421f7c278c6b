package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fromagerie-alioui/invoicing-api/internal/api/handler"
	"github.com/fromagerie-alioui/invoicing-api/internal/api/middleware"
	"github.com/fromagerie-alioui/invoicing-api/internal/core/ports"
	"github.com/fromagerie-alioui/invoicing-api/internal/core/service"
	mongodb "github.com/fromagerie-alioui/invoicing-api/internal/infrastructure/db/mongo"
	redisdb "github.com/fromagerie-alioui/invoicing-api/internal/infrastructure/db/redis"
	"github.com/fromagerie-alioui/invoicing-api/internal/render"
)

// Dependencies carries everything the router needs to assemble the service
// graph. Connections are created once at startup and injected here; nothing
// below holds hidden globals.
type Dependencies struct {
	Mongo     *mongo.Database
	Redis     *redis.Client
	Renderer  ports.PDFRenderer
	Builder   *render.HTMLBuilder
	JWTSecret string
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(deps.Mongo)
	clientRepo := mongodb.NewClientRepository(deps.Mongo)
	invoiceRepo := mongodb.NewInvoiceRepository(deps.Mongo)
	pdfCache := redisdb.NewPDFCache(deps.Redis)

	authService := service.NewAuthService(userRepo, deps.JWTSecret, 0)
	userService := service.NewUserService(userRepo)
	clientService := service.NewClientService(clientRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, deps.Renderer, pdfCache, deps.Builder, deps.Logger)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	clientHandler := handler.NewClientHandler(clientService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	healthHandler := handler.NewHealthHandler(deps.Mongo, deps.Redis)

	authRequired := middleware.Auth(authService)
	adminOnly := middleware.AdminOnly()

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authRequired)
	e.GET("/auth/me", authHandler.Me, authRequired)
	e.PUT("/auth/change-password", authHandler.ChangePassword, authRequired)

	// --- Client routes ---
	clients := e.Group("/clients", authRequired)
	clients.GET("", clientHandler.List)
	clients.POST("", clientHandler.Create)
	clients.GET("/:id", clientHandler.Get)
	clients.PUT("/:id", clientHandler.Update)
	clients.DELETE("/:id", clientHandler.Delete)

	// --- Invoice routes ---
	invoices := e.Group("/invoices", authRequired)
	invoices.GET("", invoiceHandler.List)
	invoices.POST("", invoiceHandler.Create)
	invoices.GET("/:id", invoiceHandler.Get)
	invoices.PUT("/:id", invoiceHandler.Update)
	invoices.DELETE("/:id", invoiceHandler.Delete)
	invoices.GET("/:id/pdf", invoiceHandler.PDF)

	// --- User administration (admin only) ---
	users := e.Group("/users", authRequired, adminOnly)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.PUT("/:id/reset-password", userHandler.ResetPassword)
	users.DELETE("/:id", userHandler.Delete)

	// --- Probes and metrics (no auth required) ---
	e.GET("/health", healthHandler.Health)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
