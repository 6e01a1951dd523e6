package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"tasador/server/config"
	"tasador/server/internal/api"
	"tasador/server/internal/history"
	"tasador/server/internal/market"
	"tasador/server/internal/oracle"
	"tasador/server/internal/registry"
	"tasador/server/internal/valuation"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Initialize the reference price registry
	logger.Infof("Using registry database at: %s", cfg.Registry.DBPath)
	reg, err := registry.NewRegistry(cfg.Registry.DBPath, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize price registry")
	}
	if err := reg.SeedFromJSON(cfg.Registry.SeedPath); err != nil {
		logger.WithError(err).Fatal("Failed to seed price registry")
	}

	// Shared mutable state lives here and is injected downwards
	usage := history.NewUsageTracker(logger)
	store := history.NewStore(cfg.History.MaxEntries, logger)

	oracleClient := oracle.NewClient(cfg.Oracle.BaseURL,
		time.Duration(cfg.Oracle.TimeoutSeconds)*time.Second, logger)
	resolver := market.NewResolver(oracleClient, usage, logger)
	calculator := valuation.NewCalculator(logger)
	auditor := valuation.NewAuditGenerator(logger)

	handler := api.NewHandler(reg, resolver, calculator, auditor, store, usage, logger)

	router := gin.Default()
	router.Use(cors.Default())
	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
