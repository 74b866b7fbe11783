package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vapi-glue/internal/app"
	"vapi-glue/internal/config"
	"vapi-glue/internal/server"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.IsProduction())
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		logger.Fatal("invalid time zone", zap.String("tz", cfg.TimeZone), zap.Error(err))
	}

	cal, err := app.NewGoogleCalendar(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to create calendar gateway", zap.Error(err))
	}

	appInstance := &app.App{
		Cfg:      cfg,
		Calendar: cal,
		Notifier: app.NewGHLClient(cfg),
		Location: loc,
		Log:      logger,
	}

	router := gin.New()
	router.Use(gin.Logger(), app.Recovery(logger))

	// Liveness check (must be before auth middleware)
	router.GET("/", appInstance.LivenessHandler)

	router.Use(app.APIKeyMiddleware(cfg.VapiSecretToken))
	router.POST("/vapi-tool", appInstance.ToolHandler)

	logger.Info("listening", zap.String("port", cfg.Port))
	server.Run(router, cfg.Port)
}
