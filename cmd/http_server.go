package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rmoreas/benefits-portal/internal"
	"github.com/rmoreas/benefits-portal/internal/audit"
	auditPostgres "github.com/rmoreas/benefits-portal/internal/audit/postgres"
	"github.com/rmoreas/benefits-portal/internal/auth"
	authPostgres "github.com/rmoreas/benefits-portal/internal/auth/postgres"
	"github.com/rmoreas/benefits-portal/internal/comment"
	commentPostgres "github.com/rmoreas/benefits-portal/internal/comment/postgres"
	"github.com/rmoreas/benefits-portal/internal/core/events"
	"github.com/rmoreas/benefits-portal/internal/invoice"
	invoicePostgres "github.com/rmoreas/benefits-portal/internal/invoice/postgres"
	"github.com/rmoreas/benefits-portal/internal/notification"
	"github.com/rmoreas/benefits-portal/internal/reimbursement"
	"github.com/rmoreas/benefits-portal/internal/request"
	requestPostgres "github.com/rmoreas/benefits-portal/internal/request/postgres"
	"github.com/rmoreas/benefits-portal/internal/storage"
	"github.com/rmoreas/benefits-portal/internal/transport/rest"
	"github.com/rmoreas/benefits-portal/internal/user"
	userPostgres "github.com/rmoreas/benefits-portal/internal/user/postgres"
	"github.com/rmoreas/benefits-portal/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Mailer *notification.Mailer
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		deps.Mailer.Shutdown()
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(logger.Options{
		Level:  config.Observability.Logging.Level,
		Format: config.Observability.Logging.Format,
	})
	appLogger := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// gorm rides on the already-open pgx connection pool
	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	eventBus := events.NewEventBus(appLogger)

	mailer := notification.NewMailer(notification.Config{
		MailerURL:   config.Notification.MailerURL,
		APIKey:      config.Notification.APIKey,
		SendTimeout: config.Notification.SendTimeout,
		MaxWorkers:  config.Notification.MaxWorkers,
		QueueSize:   config.Notification.QueueSize,
	}, appLogger)
	mailer.SubscribeToDecisions(eventBus)

	uploader, err := buildUploader(config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// repositories
	authRepo := authPostgres.NewRepository(gormDB)
	userRepo := userPostgres.NewUserRepository(gormDB)
	requestRepo := requestPostgres.NewRequestRepository(gormDB)
	invoiceRepo := invoicePostgres.NewInvoiceRepository(gormDB)
	commentRepo := commentPostgres.NewCommentRepository(gormDB)
	auditRepo := auditPostgres.NewAuditRepository(gormDB)

	// services
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen, config.Security.BCryptCost)
	userService := user.NewService(userRepo)
	auditRecorder := audit.NewRecorder(auditRepo, appLogger)
	requestService := request.NewService(requestRepo, eventBus, auditRecorder, appLogger)
	invoiceService := invoice.NewService(invoiceRepo, requestService, uploader, appLogger)
	commentService := comment.NewService(commentRepo, requestService, appLogger)

	// handlers
	handlers := rest.Handlers{
		Auth:          auth.NewHandler(authService),
		RBAC:          auth.NewRBACAuthorization(appLogger),
		User:          user.NewHandler(userService),
		Request:       request.NewHandler(requestService),
		Invoice:       invoice.NewHandler(invoiceService),
		Comment:       comment.NewHandler(commentService),
		Audit:         audit.NewHandler(auditRecorder),
		Reimbursement: reimbursement.NewHandler(),
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, handlers, config.Server.AllowedOrigins, appLogger)

	return &Dependencies{
		Config: config,
		DB:     db,
		GormDB: gormDB,
		Router: router,
		Mailer: mailer,
		Logger: appLogger,
	}, nil
}

func buildUploader(cfg internal.StorageConfig) (storage.Uploader, error) {
	if !cfg.Enabled() {
		slog.Warn("object storage not configured, invoice uploads disabled")
		return storage.NoopUploader{}, nil
	}

	return storage.NewS3Uploader(storage.S3Config{
		Endpoint:     cfg.Endpoint,
		Region:       cfg.Region,
		Bucket:       cfg.Bucket,
		AccessKey:    cfg.AccessKey,
		SecretKey:    cfg.SecretKey,
		PublicDomain: cfg.PublicDomain,
	})
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
