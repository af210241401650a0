package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appledger "github.com/eric6923/finTrack-sub000/internal/application/ledger"
	appref "github.com/eric6923/finTrack-sub000/internal/application/reference"
	appshare "github.com/eric6923/finTrack-sub000/internal/application/shareholding"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/auth"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/cache"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/config"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/event"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/logger"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/migration"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/persistence"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/scheduler"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/storage"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/telemetry"
	"github.com/eric6923/finTrack-sub000/internal/interfaces/http/handler"
	"github.com/eric6923/finTrack-sub000/internal/interfaces/http/middleware"
	"github.com/eric6923/finTrack-sub000/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	_ "github.com/eric6923/finTrack-sub000/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			FinTrack API
//	@version		1.0
//	@description	Ledger balances and pay-later settlement for bus booking businesses

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	var (
		devToken       string
		skipMigrations bool
	)
	flag.StringVar(&devToken, "dev-token", "", `Print an access token for the given tenant ID ("new" for a fresh tenant) and exit`)
	flag.BoolVar(&skipMigrations, "skip-migrations", false, "Do not apply pending schema migrations on startup")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if devToken != "" {
		if err := printDevToken(cfg, devToken); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	baseLog, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry providers fall back to no-ops when disabled
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log := telemetry.Bridge(baseLog, lp, logger.ParseLevel(cfg.Log.Level))
	defer func() { _ = log.Sync() }()

	log.Info("Starting FinTrack",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	if !skipMigrations {
		if err := migrateSchema(cfg, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if tp.IsEnabled() && cfg.Telemetry.DBTraceEnabled {
		plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err := plugin.Register(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}
	if mp.IsEnabled() {
		dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, mp, telemetry.DBMetricsConfig{
			SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err != nil {
			log.Fatal("Failed to register database metrics", zap.Error(err))
		}
		defer func() { _ = dbMetrics.Stop() }()
	}

	// Repositories
	scope := persistence.NewGormTransactionScope(db.DB)
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	auditLog := event.NewGormAuditLog(db.DB)

	// Event bus: audit trail and business metrics
	idempotencyStore := cache.NewIdempotencyStore(ctx, &cfg.Redis, &cfg.Idempotency, log)
	eventBus := event.NewInMemoryEventBus(log)
	auditHandler := event.NewAuditLogHandler(auditLog, event.NewLedgerEventSerializer(), log)
	eventBus.Subscribe(event.NewIdempotentHandler(auditHandler, idempotencyStore, &shared.IdempotencyConfig{
		TTL:     cfg.Idempotency.TTL,
		Enabled: true,
	}, log))
	ledgerMetrics, err := telemetry.NewLedgerMetrics(mp.Meter("fintrack/ledger"))
	if err != nil {
		log.Fatal("Failed to create ledger metrics", zap.Error(err))
	}
	eventBus.Subscribe(ledgerMetrics)

	// Application services
	transactionService := appledger.NewTransactionService(scope)
	transactionService.SetEventPublisher(eventBus)
	settlementService := appledger.NewSettlementService(scope)
	settlementService.SetEventPublisher(eventBus)
	distributionService := appledger.NewDistributionService(scope)
	distributionService.SetEventPublisher(eventBus)
	profitService := appledger.NewProfitService(scope)
	profileService := appshare.NewProfileService(profileRepo)
	referenceService := appref.NewService(
		persistence.NewGormBusRepository(db.DB),
		persistence.NewGormOperatorRepository(db.DB),
		persistence.NewGormAgentRepository(db.DB),
		persistence.NewGormCategoryRepository(db.DB),
		profileRepo,
	)

	var statementStorage appledger.StatementStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3StatementStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to initialize statement storage", zap.Error(err))
		}
		statementStorage = s3Storage
		log.Info("Statement exports go to object storage", zap.String("bucket", cfg.Storage.Bucket))
	}
	statementService := appledger.NewStatementService(scope, statementStorage, cfg.Storage.PresignExpiration)

	// Month-end distribution
	if cfg.Scheduler.Enabled {
		job, err := scheduler.NewDistributionJob(cfg.Scheduler, distributionService, log)
		if err != nil {
			log.Fatal("Failed to create distribution job", zap.Error(err))
		}
		job.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			if err := job.Stop(stopCtx); err != nil {
				log.Error("Error stopping distribution job", zap.Error(err))
			}
		}()
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Tracing(middleware.TracingConfig{ServiceName: cfg.Telemetry.ServiceName, Enabled: tp.IsEnabled()}),
		middleware.SpanEnricher(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.HTTPMetrics(mp, log),
		middleware.Secure(),
		middleware.CORS(corsConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	healthHandler := handler.NewHealthHandler(db, version)
	engine.GET("/health", healthHandler.Health)
	engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger), ginSwagger.WrapHandler(swaggerFiles.Handler))

	jwtService := auth.NewJWTService(cfg.JWT)
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log
	apiMiddleware := []gin.HandlerFunc{middleware.JWTAuth(jwtConfig)}

	if cfg.HTTP.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateWindow)
		defer limiter.Stop()
		apiMiddleware = append(apiMiddleware, middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimit),
			zap.Duration("window", cfg.HTTP.RateWindow),
		)
	}

	var idempotent gin.HandlerFunc
	if cfg.Idempotency.Enabled {
		idempotent = middleware.Idempotency(middleware.IdempotencyConfig{
			Store: idempotencyStore,
			TTL:   cfg.Idempotency.TTL,
		})
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"), router.WithMiddleware(apiMiddleware...))
	router.LedgerRoutes(r, router.Handlers{
		Health:       healthHandler,
		Balances:     handler.NewBalanceHandler(transactionService),
		Transactions: handler.NewTransactionHandler(transactionService, settlementService, auditLog),
		Profit:       handler.NewProfitHandler(profitService),
		Shares:       handler.NewShareHandler(profileService, distributionService),
		Reference:    handler.NewReferenceHandler(referenceService),
		Statements:   handler.NewStatementHandler(statementService),
	}, idempotent)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := mp.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := lp.Shutdown(shutdownCtx); err != nil {
		baseLog.Error("Error shutting down logger provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// migrateSchema applies the embedded migrations over a short-lived connection
func migrateSchema(cfg *config.Config, log *zap.Logger) error {
	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	m, err := migration.NewEmbedded(sqlDB, log)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}

// printDevToken prints a signed token for local testing. It is refused in production.
func printDevToken(cfg *config.Config, tenant string) error {
	if cfg.App.Env == "production" {
		return errors.New("dev tokens are not available in production")
	}
	tenantID := uuid.New()
	if tenant != "new" {
		id, err := uuid.Parse(tenant)
		if err != nil {
			return fmt.Errorf("invalid tenant ID %q: %w", tenant, err)
		}
		tenantID = id
	}
	token, err := auth.NewJWTService(cfg.JWT).Issue(tenantID, "dev", 0)
	if err != nil {
		return err
	}
	fmt.Printf("tenant_id: %s\naccess_token: %s\nexpires_at: %s\n",
		tenantID, token.AccessToken, token.ExpiresAt.Format(time.RFC3339))
	return nil
}
