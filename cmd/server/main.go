package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appcatalog "github.com/backoffice/backend/internal/application/catalog"
	appcustomer "github.com/backoffice/backend/internal/application/customer"
	"github.com/backoffice/backend/internal/application/customerimport"
	appidentity "github.com/backoffice/backend/internal/application/identity"
	"github.com/backoffice/backend/internal/domain/identity"
	"github.com/backoffice/backend/internal/infrastructure/auth"
	"github.com/backoffice/backend/internal/infrastructure/config"
	"github.com/backoffice/backend/internal/infrastructure/logger"
	"github.com/backoffice/backend/internal/infrastructure/persistence"
	"github.com/backoffice/backend/internal/infrastructure/storage"
	"github.com/backoffice/backend/internal/interfaces/http/handler"
	"github.com/backoffice/backend/internal/interfaces/http/middleware"
	"github.com/backoffice/backend/internal/interfaces/http/router"
)

func main() {
	configPath := flag.String("config", "", "path to config file (TOML)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	log.Info("starting back office server",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
		zap.String("addr", cfg.HTTP.Addr()),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("database connected", zap.String("driver", cfg.Database.Driver))

	store, err := newArtifactStorage(cfg)
	if err != nil {
		log.Fatal("failed to initialize artifact storage", zap.Error(err))
	}
	log.Info("artifact storage ready", zap.String("backend", cfg.Storage.Backend))

	blacklist, err := newTokenBlacklist(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize token blacklist", zap.Error(err))
	}

	// Repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)

	// Import/export pipeline
	errorReports := customerimport.NewErrorReportWriter(store)
	exporter := customerimport.NewExporter(store)
	coordinator := customerimport.NewCoordinator(customerRepo, errorReports)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := appidentity.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := appidentity.NewUserService(userRepo, log)
	customerService := appcustomer.NewService(customerRepo, coordinator, exporter, errorReports, log)
	productService := appcatalog.NewService(productRepo, store, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	customerHandler := handler.NewCustomerHandler(customerService, cfg.Import.MaxFileBytes)
	userHandler := handler.NewUserHandler(userService)
	productHandler := handler.NewProductHandler(productService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig()))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxUploadBytes))

	r := router.NewRouter(engine,
		middleware.JWTAuth(authService),
		middleware.RequireRole(string(identity.GroupRoleAdmin)),
	)
	r.RegisterPublic(router.RegistrarFunc(authHandler.RegisterPublicRoutes))
	r.Register(authHandler)
	r.Register(customerHandler)
	r.Register(productHandler)
	r.RegisterAdmin(userHandler)
	r.Setup()

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

func newArtifactStorage(cfg *config.Config) (storage.ArtifactStorage, error) {
	switch cfg.Storage.Backend {
	case "s3":
		return storage.NewS3Storage(&cfg.Storage)
	default:
		return storage.NewLocalStorage(cfg.Storage.BasePath)
	}
}

func newTokenBlacklist(cfg *config.Config, log *zap.Logger) (auth.TokenBlacklist, error) {
	if !cfg.Redis.Enabled {
		log.Info("token blacklist using in-process store")
		return auth.NewMemoryTokenBlacklist(), nil
	}
	log.Info("token blacklist using redis", zap.String("addr", cfg.Redis.Addr))
	return auth.NewRedisTokenBlacklist(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
}
