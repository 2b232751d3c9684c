package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/garyjia/expense-approval/internal/application/dispatcher"
	"github.com/garyjia/expense-approval/internal/application/port"
	"github.com/garyjia/expense-approval/internal/application/service"
	"github.com/garyjia/expense-approval/internal/config"
	"github.com/garyjia/expense-approval/internal/domain/event"
	"github.com/garyjia/expense-approval/internal/infrastructure/auth"
	"github.com/garyjia/expense-approval/internal/infrastructure/external/excelexport"
	"github.com/garyjia/expense-approval/internal/infrastructure/external/netsuite"
	"github.com/garyjia/expense-approval/internal/infrastructure/notification"
	"github.com/garyjia/expense-approval/internal/infrastructure/persistence/repository"
	"github.com/garyjia/expense-approval/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/expense-approval/internal/infrastructure/storage"
	httpserver "github.com/garyjia/expense-approval/internal/interfaces/http"
	"github.com/garyjia/expense-approval/migrations"
	"github.com/garyjia/expense-approval/pkg/database"
	"github.com/garyjia/expense-approval/pkg/utils"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = gotenv.Load()

	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Expense Approval Workflow System",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Initialize database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(migrations.Files); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	reportRepo := repository.NewReportRepository(db.DB, logger)
	itemRepo := repository.NewItemRepository(db.DB, logger)
	receiptRepo := repository.NewReceiptRepository(db.DB, logger)
	approvalRepo := repository.NewApprovalRepository(db.DB, logger)
	capRepo := repository.NewPolicyCapRepository(db.DB, logger)
	batchRepo := repository.NewBatchRepository(db.DB, logger)
	employeeRepo := repository.NewEmployeeRepository(db.DB, logger)
	txManager := sqlite.NewDB(db.DB, logger)

	// Initialize receipt storage
	var storageBackend port.StorageBackend
	switch cfg.Storage.Backend {
	case "memory":
		storageBackend = storage.NewMemoryStorage()
	default:
		storageBackend, err = storage.NewLocalStorage(cfg.Storage.LocalDir, logger)
		if err != nil {
			logger.Fatal("Failed to initialize receipt storage", zap.Error(err))
		}
	}

	// Initialize the export adapter
	var exporter port.Exporter
	switch cfg.Export.Adapter {
	case "excel":
		exporter, err = excelexport.NewExporter(cfg.Export.OutputDir, logger)
		if err != nil {
			logger.Fatal("Failed to initialize excel exporter", zap.Error(err))
		}
	default:
		exporter = netsuite.NewExporter(logger)
	}

	// Initialize event dispatch and notifications
	kvLogger := utils.NewKVLogger(logger)
	events := dispatcher.NewDispatcher(kvLogger)
	defer events.Close()

	notifier := notification.NewNotifier(logger)
	events.Subscribe(event.TypeReportSubmitted, "notifier", notifier.HandleEvent)
	events.Subscribe(event.TypeDecisionRecorded, "notifier", notifier.HandleEvent)
	events.Subscribe(event.TypeBatchExported, "notifier", notifier.HandleEvent)
	publisher := dispatcher.NewAsyncPublisher(events)

	// Initialize application services
	receiptRules := service.ReceiptRules{
		MaxSizeBytes:    cfg.Receipts.MaxSizeBytes,
		MaxFilesPerItem: cfg.Receipts.MaxFilesPerItem,
	}
	expenseService := service.NewExpenseService(reportRepo, itemRepo, receiptRepo, txManager, receiptRules, publisher, kvLogger)
	policyService := service.NewPolicyService(reportRepo, itemRepo, capRepo, kvLogger)
	approvalService := service.NewApprovalService(reportRepo, approvalRepo, txManager, publisher, kvLogger)
	financeService := service.NewFinanceService(reportRepo, batchRepo, exporter, txManager, publisher, kvLogger)
	managerService := service.NewManagerService(reportRepo, itemRepo, kvLogger)

	// Initialize authentication
	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		logger.Fatal("Failed to initialize token issuer", zap.Error(err))
	}
	bypass := auth.NewBypassResolver(cfg.Auth.BypassAuth, cfg.Auth.BypassHRIdentifier, employeeRepo, logger)

	// Initialize HTTP server
	metrics := httpserver.NewMetrics(prometheus.DefaultRegisterer)
	handlers := httpserver.NewHandlers(
		expenseService, policyService, approvalService, financeService, managerService,
		employeeRepo, storageBackend, receiptRules, issuer, bypass,
		cfg.Auth.DeveloperCredential, metrics, kvLogger,
	)
	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, handlers, metrics, kvLogger)

	// Run until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
