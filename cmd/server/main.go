// Package main is the entry point for the API server. It initializes
// the databases, wires the services, and runs the HTTP server until a
// shutdown signal arrives.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payva/internal/config"
	"payva/internal/repositories"
	"payva/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	config.LoadEnv()

	if config.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if err := repositories.InitDB(); err != nil {
		logrus.WithError(err).Fatal("failed to initialize databases")
	}

	// Stale cached balances from a previous run are worse than a cold
	// cache.
	if repositories.CacheService != nil {
		if err := repositories.CacheService.FlushAll(context.Background()); err != nil {
			logrus.WithError(err).Warn("failed to flush cache on startup")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      "payva",
		ReadTimeout:  config.GetDurationEnv("HTTP_READ_TIMEOUT", 10*time.Second),
		WriteTimeout: config.GetDurationEnv("HTTP_WRITE_TIMEOUT", 10*time.Second),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	for _, path := range []string{"/api/register", "/api/login"} {
		app.Use(path, limiter.New(limiter.Config{
			Max:        5,
			Expiration: time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "too many requests, please try again later",
				})
			},
		}))
	}

	services := routes.SetupRoutes(app)

	ctx, cancel := context.WithCancel(context.Background())
	services.StartBackground(ctx)

	go func() {
		if err := app.Listen(":" + config.GetEnv("PORT", "3000")); err != nil {
			logrus.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down")

	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logrus.WithError(err).Warn("forced shutdown")
	}
	services.Close()

	if repositories.DB != nil {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logrus.WithError(err).Warn("failed to close database connection")
			}
		}
	}
	if repositories.CacheService != nil {
		if err := repositories.CacheService.Close(); err != nil {
			logrus.WithError(err).Warn("failed to close cache connection")
		}
	}
}
