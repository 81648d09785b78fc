package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"prop-vault.backend/internal/config"
	"prop-vault.backend/internal/infrastructure/gateway"
	"prop-vault.backend/internal/infrastructure/jobs"
	"prop-vault.backend/internal/infrastructure/notifier"
	"prop-vault.backend/internal/infrastructure/repositories"
	"prop-vault.backend/internal/interfaces/http/handlers"
	"prop-vault.backend/internal/interfaces/http/middleware"
	"prop-vault.backend/internal/usecases"
	"prop-vault.backend/pkg/jwt"
	"prop-vault.backend/pkg/logger"
	"prop-vault.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("Connected to PostgreSQL via GORM")
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	walletRepo := repositories.NewWalletRepository(db)
	earningRepo := repositories.NewReferralEarningRepository(db)
	withdrawalRepo := repositories.NewWithdrawalRepository(db)
	globalSettingsRepo := repositories.NewGlobalSettingsRepository(db)
	affiliateSettingsRepo := repositories.NewAffiliateSettingsRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// External services
	payoutGateway := gateway.NewNOWPaymentsClient(
		cfg.NOWPayments.APIURL,
		cfg.NOWPayments.APIKey,
		cfg.NOWPayments.IPNSecret,
		nil,
	)
	mailNotifier := notifier.NewBrevoNotifier(
		cfg.Mail.BrevoAPIKey,
		cfg.Mail.SenderEmail,
		cfg.Mail.SenderName,
		nil,
	)

	// Usecases
	walletUsecase := usecases.NewWalletUsecase(walletRepo, earningRepo, userRepo, globalSettingsRepo, affiliateSettingsRepo, uow)
	withdrawalUsecase := usecases.NewWithdrawalUsecase(
		walletRepo, withdrawalRepo, userRepo, globalSettingsRepo, uow,
		payoutGateway, mailNotifier,
		cfg.Mail.AdminEmail, cfg.NOWPayments.CallbackURL,
	)
	affiliateAdminUsecase := usecases.NewAffiliateAdminUsecase(globalSettingsRepo, affiliateSettingsRepo, userRepo)

	// Handlers
	walletHandler := handlers.NewWalletHandler(walletUsecase, withdrawalUsecase)
	withdrawalAdminHandler := handlers.NewWithdrawalAdminHandler(withdrawalUsecase)
	referralAdminHandler := handlers.NewReferralAdminHandler(walletUsecase)
	affiliateAdminHandler := handlers.NewAffiliateAdminHandler(affiliateAdminUsecase)
	payoutCallbackHandler := handlers.NewPayoutCallbackHandler(payoutGateway, withdrawalUsecase)

	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	payoutJob := jobs.NewPayoutStatusJob(withdrawalUsecase, withdrawalRepo, cfg.Jobs.PayoutPollInterval)
	go payoutJob.Start(ctx)

	// Router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerAPIV1Routes(r, routeDeps{
		walletHandler:          walletHandler,
		withdrawalAdminHandler: withdrawalAdminHandler,
		referralAdminHandler:   referralAdminHandler,
		affiliateAdminHandler:  affiliateAdminHandler,
		payoutCallbackHandler:  payoutCallbackHandler,
		authMiddleware:         authMiddleware,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		payoutJob.Stop()
		cancel()
	}()

	log.Printf("Wallet service starting on port %s", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
