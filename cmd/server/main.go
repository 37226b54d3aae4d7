package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	_ "pixflow/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"pixflow/internal/auth"
	"pixflow/internal/cache"
	"pixflow/internal/config"
	"pixflow/internal/db"
	"pixflow/internal/gateway"
	"pixflow/internal/handler"
	"pixflow/internal/model"
	"pixflow/internal/repository"
	"pixflow/internal/router"
	"pixflow/internal/service"
	"pixflow/internal/vault"
)

// @title PixFlow API
// @version 1.0
// @description Multi-tenant PIX charge tracking API with JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	// The encryption key must be explicit configuration: regenerating it on
	// restart would orphan every stored gateway credential.
	if cfg.EncryptionKey == "" {
		log.Fatal("ENCRYPTION_KEY is not set; generate one with: go run ./cmd/keygen")
	}
	credentialVault, err := vault.New(cfg.EncryptionKey)
	if err != nil {
		log.Fatalf("vault init: %v", err)
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.ResetToken{},
			&model.Charge{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Charge{},
		&model.ResetToken{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	chargeRepo := repository.NewChargeRepository(gormDB)
	resetRepo := repository.NewResetTokenRepository(gormDB)

	// Bootstrap admin account
	if err := service.EnsureAdmin(context.Background(), userRepo, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	}

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	gatewayClient := gateway.NewClient()
	authService := service.NewAuthService(userRepo, jwtService, credentialVault)
	chargeService := service.NewChargeService(chargeRepo, userRepo, credentialVault, gatewayClient, cacheClient)
	statsService := service.NewStatsService(chargeRepo, cacheClient)
	adminService := service.NewAdminService(userRepo, resetRepo, cfg.FrontendURL)
	resetService := service.NewResetService(userRepo, resetRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, resetService)
	chargeHandler := handler.NewChargeHandler(authService, chargeService)
	dashboardHandler := handler.NewDashboardHandler(authService, statsService)
	adminHandler := handler.NewAdminHandler(authService, adminService)

	// Register routes
	router.Register(
		e,
		cfg,
		cacheClient,
		authHandler,
		chargeHandler,
		dashboardHandler,
		adminHandler,
	)

	// Log swagger full path
	swaggerURL := "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	if cfg.SwaggerHost != "" {
		// SwaggerHost may already include scheme (http:// or https://)
		if strings.HasPrefix(cfg.SwaggerHost, "http://") || strings.HasPrefix(cfg.SwaggerHost, "https://") {
			swaggerURL = cfg.SwaggerHost + "/swagger/index.html"
		} else {
			swaggerURL = "http://" + cfg.SwaggerHost + "/swagger/index.html"
		}
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
