package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"gridalpha/internal/api/handlers"
	"gridalpha/internal/api/middleware"
	"gridalpha/internal/config"
	"gridalpha/internal/data"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfgPath := flag.String("config", os.Getenv("GRIDALPHA_CONFIG"), "Path to YAML config (optional)")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if os.Getenv("API_ENV") != "production" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply middleware
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())

	var h *handlers.Handler
	if config.DemoMode() {
		demo, err := data.NewDemoSource(nil)
		if err != nil {
			log.WithError(err).Fatal("failed to load bundled snapshot")
		}
		h = handlers.NewDemoHandler(cfg, demo, log)
		log.Warn("demo mode: serving bundled snapshot, not live feeds")
	} else {
		pjm := data.NewPJMClient(cfg.PJM.APIKey, cfg.PJM.BaseURL, cfg.PJM.SettingsURL, cfg.PJM.RowsPerPage, log)
		noaa := data.NewNOAAClient(cfg.NOAA.BaseURL, cfg.NOAA.UserAgent, log)
		h = handlers.NewHandler(cfg, pjm, noaa, log)
	}

	// Health check
	router.GET("/health", h.Health)

	// API routes
	api := router.Group("/api/v1")
	{
		api.GET("/lmp", h.GetLMP)
		api.GET("/spark-spread", h.GetSparkSpread)
		api.GET("/battery-arbitrage", h.GetArbitrage)
		api.GET("/convergence", h.GetConvergence)
		api.GET("/resource-gap", h.GetResourceGap)
		api.GET("/marginal-fuel", h.GetMarginalFuel)
		api.GET("/weather", h.GetWeather)
	}

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Server.Env, "demo": h.Demo()}).
		Info("starting API server")
	if err := router.Run(addr); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
