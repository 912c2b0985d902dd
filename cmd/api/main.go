package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backoffice/internal/config"
	"backoffice/internal/database"
	"backoffice/internal/handler"
	"backoffice/internal/logger"
	"backoffice/internal/metrics"
	"backoffice/internal/middleware"
	"backoffice/internal/repository"
	"backoffice/internal/service"
	"backoffice/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// draftTTL bounds how long an abandoned inspection stays in redis.
const draftTTL = 7 * 24 * time.Hour

// @title           Pharmacy Back-office API
// @version         1.0
// @description     Goods-receipt inspection, stock adjustment and stock opname.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load("configs/.env")
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	log := logger.New(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	db, err := database.NewConnection(cfg.DSN(), log)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Info("Connected to PostgreSQL successfully.")

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(log)
	go wsHub.Run(sigCtx)

	var reg prometheus.Registerer
	if cfg.MetricsEnabled {
		reg = prometheus.DefaultRegisterer
	}
	m := metrics.New(reg)

	drafts, err := newDraftStore(sigCtx, cfg, db)
	if err != nil {
		log.Fatalf("Draft store unavailable: %v", err)
	}

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	productRepo := repository.NewProductRepository(db)
	inventoryRepo := repository.NewInventoryTxRepository(db)
	receptionRepo := repository.NewReceptionRepository(db)
	adjustmentRepo := repository.NewAdjustmentRepository(db)
	opnameRepo := repository.NewOpnameRepository(db)
	gateway := repository.NewSubmissionGateway(txManager, productRepo, inventoryRepo, receptionRepo, adjustmentRepo, opnameRepo)

	productService := service.NewProductService(productRepo, inventoryRepo)
	receptionService := service.NewReceptionService(productRepo, drafts, receptionRepo, gateway, wsHub, m, log, cfg.QuantityBoundFactor)
	adjustmentService := service.NewAdjustmentService(productRepo, productRepo, gateway, wsHub, m, log)
	opnameService := service.NewOpnameService(productRepo, productRepo, opnameRepo, gateway, wsHub, m, log)

	// Initialize Handlers
	productHandler := handler.NewProductHandler(productService)
	receptionHandler := handler.NewReceptionHandler(receptionService)
	adjustmentHandler := handler.NewAdjustmentHandler(adjustmentService)
	opnameHandler := handler.NewOpnameHandler(opnameService)

	// Set up Gin Router
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins()
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	secret := []byte(cfg.JWTSecret)
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, secret)
	})

	// API Routing
	api := router.Group("/api", middleware.Authenticate(secret))
	productHandler.RegisterRoutes(api)
	receptionHandler.RegisterRoutes(api)
	adjustmentHandler.RegisterRoutes(api)
	opnameHandler.RegisterRoutes(api)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		log.Infof("Server listening on :%s", cfg.Port)
		serverErrCh <- srv.ListenAndServe()
	}()

	select {
	case <-sigCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Server shutdown failed")
		}
	case err := <-serverErrCh:
		if err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}
}

func newDraftStore(ctx context.Context, cfg config.Config, db *gorm.DB) (repository.DraftStore, error) {
	switch cfg.DraftStore {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		return repository.NewRedisDraftStore(client, draftTTL), nil
	case "memory":
		return repository.NewMemoryDraftStore(), nil
	}
	return repository.NewGormDraftStore(db), nil
}
