package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/commission-payroll-go/internal/config"
	appHTTP "github.com/cmlabs-hris/commission-payroll-go/internal/handler/http"
	"github.com/cmlabs-hris/commission-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/cron"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/commission-payroll-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/commission-payroll-go/internal/service/auth"
	commissionService "github.com/cmlabs-hris/commission-payroll-go/internal/service/commission"
	templateService "github.com/cmlabs-hris/commission-payroll-go/internal/service/commissiontemplate"
	discountService "github.com/cmlabs-hris/commission-payroll-go/internal/service/discount"
	salaryService "github.com/cmlabs-hris/commission-payroll-go/internal/service/salary"
	trainingService "github.com/cmlabs-hris/commission-payroll-go/internal/service/training"
	userService "github.com/cmlabs-hris/commission-payroll-go/internal/service/user"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	logger, err := newLogger(cfg.App)
	if err != nil {
		log.Fatal("Error creating logger: ", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	db, err := database.NewPostgreSQLDB(context.Background(), cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Fatal("Error connecting to database", zap.Error(err))
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	commissionRepo := postgresql.NewCommissionRepository(db)
	discountRepo := postgresql.NewDiscountRepository(db)
	trainingRepo := postgresql.NewTrainingRepository(db)
	templateRepo := postgresql.NewCommissionTemplateRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	transactor := postgresql.NewTransactor(db, logger.Named("postgresql.tx"))

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	salarySvc := salaryService.NewSalaryService(transactor, userRepo, commissionRepo, discountRepo, logger)
	userSvc := userService.NewUserService(userRepo, salarySvc, logger)
	authSvc := serviceAuth.NewAuthService(transactor, userRepo, userSvc, JWTService, JWTRepository, logger)
	commissionSvc := commissionService.NewCommissionService(commissionRepo, discountRepo, userRepo, salarySvc, logger)
	discountSvc := discountService.NewDiscountService(discountRepo, salarySvc, logger)
	trainingSvc := trainingService.NewTrainingService(trainingRepo, logger)
	templateSvc := templateService.NewTemplateService(templateRepo)

	loginLimit, err := middleware.RateLimit(cfg.RateLimit.Login)
	if err != nil {
		logger.Fatal("Invalid login rate limit", zap.String("rate", cfg.RateLimit.Login), zap.Error(err))
	}

	router := appHTTP.NewRouter(
		JWTService,
		appHTTP.Handlers{
			Auth:               appHTTP.NewAuthHandler(JWTService, authSvc),
			User:               appHTTP.NewUserHandler(userSvc),
			Commission:         appHTTP.NewCommissionHandler(commissionSvc),
			Training:           appHTTP.NewTrainingHandler(trainingSvc, commissionSvc),
			Discount:           appHTTP.NewDiscountHandler(discountSvc),
			CommissionTemplate: appHTTP.NewCommissionTemplateHandler(templateSvc),
			Salary:             appHTTP.NewSalaryHandler(salarySvc),
		},
		appHTTP.RouterConfig{
			AppEnv:         cfg.App.Env,
			AllowedOrigins: cfg.App.CORSAllowedOrigins,
			LoginRateLimit: loginLimit,
		},
	)

	scheduler := cron.NewScheduler(logger)
	cron.NewMaintenanceJobs(
		salarySvc,
		JWTRepository,
		cfg.Cron.TaxCleanupInterval,
		cfg.Cron.TokenCleanupInterval,
		logger,
	).RegisterJobs(scheduler)
	scheduler.Start()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server running", zap.String("addr", server.Addr), zap.String("env", cfg.App.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", zap.Error(err))
		}
	}

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(app config.AppConfig) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if app.Env == "production" {
		zapCfg = zap.NewProductionConfig()
	}
	level, err := zap.ParseAtomicLevel(app.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	zapCfg.Level = level
	return zapCfg.Build()
}
