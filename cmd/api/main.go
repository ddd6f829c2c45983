package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/damoang/payout-ledger/internal/config"
	"github.com/damoang/payout-ledger/internal/database"
	"github.com/damoang/payout-ledger/internal/middleware"
	"github.com/damoang/payout-ledger/internal/migration"
	"github.com/damoang/payout-ledger/internal/routes"
	"github.com/damoang/payout-ledger/internal/settlement/handler"
	"github.com/damoang/payout-ledger/internal/settlement/reconcile"
	"github.com/damoang/payout-ledger/internal/settlement/repository"
	"github.com/damoang/payout-ledger/internal/settlement/service"
	"github.com/damoang/payout-ledger/pkg/cache"
	"github.com/damoang/payout-ledger/pkg/jwt"
	pkglogger "github.com/damoang/payout-ledger/pkg/logger"
	pkgredis "github.com/damoang/payout-ledger/pkg/redis"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	gormlogger "gorm.io/gorm/logger"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	log := pkglogger.GetLogger()
	log.Info().Str("env", env).Strs("env_files", dotenvFiles).Msg("starting payout ledger")

	// 설정 로드
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
	}
	config.LogResolved(cfg)

	// DB 연결. 원장 없이는 기동하지 않는다.
	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}
	db, err := database.Open(&cfg.Database, logLevel)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to connect to database")
	}
	if err := migration.Run(db); err != nil {
		log.Fatal().Err(err).Msg("ledger migration failed")
	}
	if policy, created, err := migration.SeedPolicy(context.Background(), db,
		cfg.Settlement.DefaultCommissionPercent, cfg.Settlement.DefaultGSTPercent); err != nil {
		log.Fatal().Err(err).Msg("failed to seed commission policy")
	} else if created {
		log.Info().Uint64("policy_id", policy.ID).Msg("default commission policy seeded")
	}

	// Redis 연결 (선택). 실패하면 캐시/락 없이 동작.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, continuing without cache and sweep lock")
			redisClient = nil
		} else {
			log.Info().Msg("connected to redis")
		}
	}

	// Repositories / Services
	settlementRepo := repository.NewSettlementRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	policySvc := service.NewPolicyService(repository.NewPolicyRepository(db))
	var cacheSvc cache.Service
	if redisClient != nil {
		cacheSvc = cache.NewService(redisClient)
	}
	walletSvc := service.NewWalletService(settlementRepo, cacheSvc, cfg.Settlement.Currency)
	settlementSvc := service.NewSettlementService(
		settlementRepo,
		policySvc,
		service.NewBankGate(profileRepo),
		walletSvc,
		service.SettlementConfig{
			Currency:     cfg.Settlement.Currency,
			ReturnWindow: cfg.Settlement.ReturnWindow,
		},
	)

	// 취소 가능 기간이 지난 정산 자동 승격
	reconciler := reconcile.NewWorker(settlementRepo, settlementSvc, redisClient, reconcile.Config{
		Interval:  cfg.Settlement.ReconcileInterval,
		BatchSize: cfg.Settlement.ReconcileBatchSize,
	})
	reconciler.Start()

	// Gin 라우터
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	allowOrigins := splitAndTrim(cfg.CORS.AllowOrigins, ",")
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-Key", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		dbState := "ok"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = http.StatusServiceUnavailable
			dbState = "down"
		} else {
			middleware.SetDBConnectionsOpen(sqlDB.Stats().OpenConnections)
		}
		c.JSON(status, gin.H{
			"status":   dbState,
			"service":  "payout-ledger",
			"database": dbState,
			"redis":    redisClient != nil,
			"time":     time.Now().Unix(),
		})
	})

	routes.Setup(router, routes.Handlers{
		Settlement: handler.NewSettlementHandler(settlementSvc),
		Policy:     handler.NewPolicyHandler(policySvc),
		Wallet:     handler.NewWalletHandler(walletSvc),
		Profile:    handler.NewProfileHandler(service.NewProfileService(profileRepo)),
	}, routes.Options{
		JWTManager:      jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn),
		InternalAPIKey:  cfg.Internal.APIKey,
		Redis:           redisClient,
		PayoutRateLimit: cfg.Settlement.PayoutRateLimit,
	})

	// 서버 시작
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	reconciler.Stop()

	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}

// splitAndTrim splits a string by delimiter and drops empty parts
func splitAndTrim(s string, delimiter string) []string {
	parts := []string{}
	for _, part := range strings.Split(s, delimiter) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
