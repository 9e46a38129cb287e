package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-bookkeeping/internal/handler"
	"go-bookkeeping/internal/middleware"
	"go-bookkeeping/internal/model"
	"go-bookkeeping/internal/repository"
	"go-bookkeeping/internal/service"
	"go-bookkeeping/internal/ws"
	"go-bookkeeping/pkg/database"
	"go-bookkeeping/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env (optional outside local development)
	godotenv.Load()
	if err := logger.Init(); err != nil {
		panic(err)
	}
	defer logger.Sync()

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Tenant{},
		&model.Item{},
		&model.Supplier{},
		&model.Transaction{},
		&model.TransactionItem{},
		&model.StockMovement{},
	)

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	tenantRepo := repository.NewTenantRepo(db)
	itemRepo := repository.NewItemRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	txRepo := repository.NewTransactionRepo(db)

	catalogService := service.NewCatalogService(itemRepo, supplierRepo, movementRepo, db, wsHub)
	txService := service.NewTransactionService(txRepo, itemRepo, supplierRepo, movementRepo, db, wsHub)
	dashService := service.NewDashboardService(txRepo)

	catalogHandler := handler.NewCatalogHandler(catalogService)
	txHandler := handler.NewTransactionHandler(txService)
	dashHandler := handler.NewDashboardHandler(dashService)
	webhookHandler := handler.NewWebhookHandler(tenantRepo)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Bookkeeping API v1.0",
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	// 6. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	// Identity-provider webhook (signature verification delegated upstream)
	api.Post("/webhooks/identity", webhookHandler.HandleIdentityEvent)

	// Catalog read degrades for guests: global items only, zero stock
	api.Get("/catalog", middleware.OptionalTenant(tenantRepo), catalogHandler.GetCatalog)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireTenant(tenantRepo))

	// Catalog writes
	protected.Post("/items", catalogHandler.CreateItem)
	protected.Delete("/items/:id", catalogHandler.DeleteItem)
	protected.Get("/suppliers", catalogHandler.GetSuppliers)
	protected.Post("/suppliers", catalogHandler.CreateSupplier)

	// Transactions
	protected.Post("/transactions", txHandler.CreateTransaction)
	protected.Get("/transactions", txHandler.GetTransactions)
	protected.Get("/transactions/:id", txHandler.GetTransaction)

	// Dashboard
	protected.Get("/dashboard/stats", dashHandler.GetDashboardStats)
	protected.Get("/dashboard/daily-summary", dashHandler.GetDailySummary)
	protected.Get("/dashboard/recent", dashHandler.GetRecentTransactions)

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			logger.L().Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L().Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.L().Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.L().Info("server exited")
}
