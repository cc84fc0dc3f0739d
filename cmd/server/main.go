package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	billingapp "github.com/rentledger/backend/internal/application/billing"
	identityapp "github.com/rentledger/backend/internal/application/identity"
	rentalapp "github.com/rentledger/backend/internal/application/rental"
	reportapp "github.com/rentledger/backend/internal/application/report"
	"github.com/rentledger/backend/internal/domain/identity"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/rentledger/backend/internal/infrastructure/auth"
	"github.com/rentledger/backend/internal/infrastructure/config"
	"github.com/rentledger/backend/internal/infrastructure/event"
	"github.com/rentledger/backend/internal/infrastructure/logger"
	"github.com/rentledger/backend/internal/infrastructure/persistence"
	"github.com/rentledger/backend/internal/infrastructure/scheduler"
	"github.com/rentledger/backend/internal/infrastructure/telemetry"
	"github.com/rentledger/backend/internal/interfaces/http/handler"
	"github.com/rentledger/backend/internal/interfaces/http/middleware"
	"github.com/rentledger/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting RentLedger",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// OpenTelemetry tracer provider (no-op when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database connection with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Query-level tracing piggybacks on the tracer provider
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.App.Env != "production",
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Token blacklist: Redis when reachable, in-memory otherwise.
	// The in-memory fallback means logout-everywhere only covers one
	// process, which is acceptable for development.
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
		log.Info("Redis token blacklist connected",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	buildingRepo := persistence.NewGormBuildingRepository(db.DB)
	roomRepo := persistence.NewGormRoomRepository(db.DB)
	requestRepo := persistence.NewGormRentalRequestRepository(db.DB)
	contractRepo := persistence.NewGormContractRepository(db.DB)
	readingRepo := persistence.NewGormMeterReadingRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)

	rentalTxScope := persistence.NewGormRentalTransactionScope(db.DB)
	billingTxScope := persistence.NewGormBillingTransactionScope(db.DB)

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, log)

	// Rental services
	buildingService := rentalapp.NewBuildingService(buildingRepo, roomRepo)
	roomService := rentalapp.NewRoomService(roomRepo, buildingRepo, contractRepo)
	requestService := rentalapp.NewRentalRequestService(requestRepo, roomRepo, rentalTxScope)
	contractService := rentalapp.NewContractService(contractRepo, rentalTxScope)
	readingService := rentalapp.NewMeterReadingService(readingRepo, contractRepo, invoiceRepo, rentalTxScope)

	// Billing services
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, billingTxScope, log)
	invoiceService.SetPaymentTermDays(cfg.Billing.PaymentTermDays)
	paymentService := billingapp.NewPaymentService(paymentRepo, billingTxScope, log)

	// Reporting
	reportService := reportapp.NewService(invoiceRepo, contractRepo, roomRepo, userRepo, log)

	// Event bus: synchronous in-process dispatch with an audit trail
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))

	roomService.SetEventPublisher(eventBus)
	requestService.SetEventPublisher(eventBus)
	contractService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)
	paymentService.SetEventPublisher(eventBus)

	// Daily overdue sweep (if enabled)
	if cfg.Sweep.Enabled {
		sweepTrigger, err := scheduler.NewSweepTrigger(scheduler.SweepTriggerConfig{
			DailyHour:     cfg.Sweep.DailyHour,
			DailyMinute:   cfg.Sweep.DailyMinute,
			CheckInterval: cfg.Sweep.CheckInterval,
			JobTimeout:    cfg.Sweep.JobTimeout,
		}, &overdueSweeper{invoices: invoiceService}, log)
		if err != nil {
			log.Fatal("Invalid sweep configuration", zap.Error(err))
		}
		if err := sweepTrigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sweep trigger", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := sweepTrigger.Stop(stopCtx); err != nil {
				log.Error("Error stopping sweep trigger", zap.Error(err))
			}
		}()
	}

	// Default utility unit prices from configuration
	electricPrice, err := valueobject.NewMoneyVNDFromString(cfg.Billing.ElectricUnitPrice)
	if err != nil {
		log.Fatal("Invalid billing.electric_unit_price", zap.Error(err))
	}
	waterPrice, err := valueobject.NewMoneyVNDFromString(cfg.Billing.WaterUnitPrice)
	if err != nil {
		log.Fatal("Invalid billing.water_unit_price", zap.Error(err))
	}

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	buildingHandler := handler.NewBuildingHandler(buildingService)
	roomHandler := handler.NewRoomHandler(roomService)
	requestHandler := handler.NewRentalRequestHandler(requestService)
	contractHandler := handler.NewContractHandler(contractService)
	readingHandler := handler.NewMeterReadingHandler(readingService, electricPrice, waterPrice)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	reportHandler := handler.NewReportHandler(reportService)
	systemHandler := handler.NewSystemHandler(db.DB)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Liveness endpoint outside API versioning
	engine.GET("/health", systemHandler.Health)

	// Route guards
	jwtAuth := middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	})
	guards := router.Guards{
		Auth:       jwtAuth,
		OwnerOnly:  middleware.RequireRole(identity.RoleOwner),
		TenantOnly: middleware.RequireRole(identity.RoleTenant),
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(&router.SystemRoutes{Handler: systemHandler})
	r.Register(&router.AuthRoutes{Handler: authHandler, Users: userHandler, Guards: guards})
	r.Register(&router.UserRoutes{Handler: userHandler, Guards: guards})
	r.Register(&router.PropertyRoutes{Buildings: buildingHandler, Rooms: roomHandler, Guards: guards})
	r.Register(&router.RentalRoutes{
		Requests:  requestHandler,
		Contracts: contractHandler,
		Readings:  readingHandler,
		Guards:    guards,
	})
	r.Register(&router.BillingRoutes{Invoices: invoiceHandler, Payments: paymentHandler, Guards: guards})
	r.Register(&router.ReportRoutes{Handler: reportHandler, Guards: guards})
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
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

// overdueSweeper adapts the invoice service to the sweep trigger interface
type overdueSweeper struct {
	invoices *billingapp.InvoiceService
}

func (s *overdueSweeper) SweepOverdue(ctx context.Context, asOf time.Time, dryRun bool) (int, error) {
	results, err := s.invoices.SweepOverdue(ctx, asOf, dryRun)
	if err != nil {
		return 0, err
	}
	marked := 0
	for _, r := range results {
		if r.Marked {
			marked++
		}
	}
	return marked, nil
}
