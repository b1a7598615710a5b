package app

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/geminitwinsolutions/doobie-division-app/internal/admin"
	"github.com/geminitwinsolutions/doobie-division-app/internal/auth/handler"
	"github.com/geminitwinsolutions/doobie-division-app/internal/auth/telegram"
	"github.com/geminitwinsolutions/doobie-division-app/internal/config"
	"github.com/geminitwinsolutions/doobie-division-app/internal/middleware"
	"github.com/geminitwinsolutions/doobie-division-app/internal/notify"
	"github.com/geminitwinsolutions/doobie-division-app/internal/orders"
	"github.com/geminitwinsolutions/doobie-division-app/internal/session"
)

func setupHTTP(ctx context.Context, cfg *config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	verifier := telegram.NewVerifier(cfg.TelegramBotToken, cfg.TelegramAuthTTL)
	registry := admin.NewPGRegistry(infra.DB)

	issuer, err := session.NewIssuer(
		cfg.JWTSecret,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
		session.NewRedisStore(infra.Redis.Client),
	)
	if err != nil {
		return nil, nil, err
	}

	botClient := notify.NewBotClient(cfg.TelegramBotToken)
	orderService := orders.NewService(infra.DB, botClient)

	authHandler := handler.NewHandler(
		verifier,
		registry,
		issuer,
		cfg.AdminRedirectURL,
		cfg.TelegramBotName,
	)
	adminHandler := admin.NewHandler(registry)
	orderHandler := orders.NewHandler(orderService, registry)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.RequireAuth(issuer))

	api.GET("/me", authHandler.Me)
	adminHandler.RegisterRoutes(api, middleware.RequireSuperAdmin())
	orderHandler.RegisterRoutes(api)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		if err := infra.Redis.Close(); err != nil {
			return err
		}
		return infra.DB.Close()
	}, nil
}
