// Package routes defines the API routing configuration.
// It wires repositories, services and handlers together and groups
// routes by functionality with the appropriate middleware.
package routes

import (
	"context"

	"payva/internal/config"
	"payva/internal/handlers"
	"payva/internal/middleware"
	"payva/internal/repositories"
	"payva/internal/services/card"
	"payva/internal/services/category"
	"payva/internal/services/ledger"
	"payva/internal/services/notification"
	"payva/internal/services/user"
	"payva/internal/services/verification"
	"payva/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
)

// Services bundles the long-lived services the server needs to manage
// beyond the request cycle (background loops, shutdown hooks).
type Services struct {
	Notifications *notification.Service
	Verification  verification.Service
}

// SetupRoutes configures all application routes and returns the
// long-lived services for lifecycle management.
func SetupRoutes(app *fiber.App) *Services {
	// Initialize repositories
	ledgerRepo := repositories.NewLedgerRepository(repositories.DB)
	walletRepo := repositories.NewWalletRepository(repositories.DB)
	userRepo := repositories.NewUserRepository(repositories.DB)
	cardRepo := repositories.NewCardRepository(repositories.DB)
	categoryRepo := repositories.NewCategoryRepository(repositories.DB)
	transactionRepo := repositories.NewTransactionRepository(repositories.DB)

	// Initialize services in dependency order: the notifier feeds the
	// token issuer, the issuer feeds the ledger engine, and the engine
	// acts as finalizer for the verification workflow.
	notificationSvc := notification.NewService(&notification.LogSender{}, config.GetIntEnv("NOTIFICATION_BUFFER", 64))
	issuer := verification.NewIssuer(ledgerRepo, notificationSvc)

	ledgerSvc := ledger.NewService(
		ledgerRepo,
		repositories.CacheService,
		issuer,
		ledger.Config{
			LargeTransactionThreshold: config.GetDecimalEnv("LARGE_TRANSACTION_THRESHOLD", ledger.DefaultLargeTransactionThreshold),
			DefaultCurrency:           config.GetEnv("DEFAULT_CURRENCY", ledger.DefaultCurrency),
		},
		nil,
	)

	verificationSvc := verification.NewService(ledgerRepo, ledgerSvc, verification.Config{
		TokenValidity: config.GetDurationEnv("TOKEN_VALIDITY", verification.DefaultTokenValidity),
	})

	userSvc := user.NewService(userRepo, notificationSvc)
	walletSvc := wallet.NewService(walletRepo, userRepo, repositories.CacheService)
	cardSvc := card.NewService(cardRepo)
	categorySvc := category.NewService(categoryRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userSvc, walletSvc)
	walletHandler := handlers.NewWalletHandler(walletSvc)
	cardHandler := handlers.NewCardHandler(cardSvc)
	categoryHandler := handlers.NewCategoryHandler(categorySvc)
	transferHandler := handlers.NewTransferHandler(ledgerSvc, verificationSvc)
	transactionHandler := handlers.NewTransactionHandler(transactionRepo, walletSvc)
	adminHandler := handlers.NewAdminHandler(userSvc, userRepo, transactionRepo)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Payva API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		if sqlDB, err := repositories.DB.DB(); err != nil || sqlDB.Ping() != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "database unavailable"})
		}
		if err := repositories.CacheService.HealthCheck(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "cache unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)

	// Protected routes with auth middleware
	authMiddleware := middleware.NewAuthMiddleware(userRepo)
	protected := api.Use(authMiddleware.Handler)

	setupWalletRoutes(protected, walletHandler, transactionHandler)
	setupCardRoutes(protected, cardHandler)
	setupCategoryRoutes(protected, categoryHandler)
	setupTransferRoutes(protected, transferHandler, transactionHandler)
	setupAdminRoutes(protected, adminHandler)

	protected.Get("/me", authHandler.Me)
	protected.Post("/invite", authHandler.Invite)

	return &Services{
		Notifications: notificationSvc,
		Verification:  verificationSvc,
	}
}

// StartBackground launches the background loops owned by the services.
func (s *Services) StartBackground(ctx context.Context) {
	s.Verification.StartExpirySweeper(ctx, config.GetDurationEnv("EXPIRY_SWEEP_INTERVAL", verification.DefaultSweepInterval))
}

// Close flushes and stops the long-lived services.
func (s *Services) Close() {
	s.Notifications.Close()
}

func setupWalletRoutes(router fiber.Router, h *handlers.WalletHandler, tx *handlers.TransactionHandler) {
	wallets := router.Group("/wallets")
	wallets.Post("/", h.Create)
	wallets.Get("/", h.List)
	wallets.Get("/:id", h.Get)
	wallets.Get("/:id/balance", h.Balance)
	wallets.Get("/:id/transactions", tx.WalletHistory)
	wallets.Put("/:id", h.Rename)
	wallets.Delete("/:id", h.Delete)
	wallets.Post("/:id/default", h.SetDefault)
}

func setupCardRoutes(router fiber.Router, h *handlers.CardHandler) {
	cards := router.Group("/cards")
	cards.Post("/", h.Register)
	cards.Get("/", h.List)
	cards.Get("/:id", h.Get)
	cards.Delete("/:id", h.Delete)
}

func setupCategoryRoutes(router fiber.Router, h *handlers.CategoryHandler) {
	categories := router.Group("/categories")
	categories.Post("/", h.Create)
	categories.Get("/", h.List)
	categories.Get("/:id", h.Get)
	categories.Get("/:id/spendings", h.Spendings)
	categories.Put("/:id", h.Rename)
	categories.Delete("/:id", h.Delete)
}

func setupTransferRoutes(router fiber.Router, transfers *handlers.TransferHandler, transactions *handlers.TransactionHandler) {
	router.Post("/transfers", transfers.Execute)
	router.Post("/transfers/verify", transfers.Redeem)
	router.Get("/transactions", transactions.History)
	router.Get("/transactions/reference/:reference", transactions.GetByReference)
	router.Get("/transactions/:id", transactions.Get)
}

func setupAdminRoutes(router fiber.Router, h *handlers.AdminHandler) {
	admin := router.Group("/admin", middleware.RequireEmployee)
	admin.Get("/users", h.ListUsers)
	admin.Get("/transactions", h.ListTransactions)
	admin.Put("/users/:id/block", h.SetBlocked)
}
