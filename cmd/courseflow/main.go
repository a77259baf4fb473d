package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/courseflow/courseflow/cmd/courseflow/cli"
	"github.com/courseflow/courseflow/internal/app"
	"github.com/courseflow/courseflow/internal/audit"
	audithttp "github.com/courseflow/courseflow/internal/audit/http"
	"github.com/courseflow/courseflow/internal/auth"
	"github.com/courseflow/courseflow/internal/contacts"
	"github.com/courseflow/courseflow/internal/courses"
	"github.com/courseflow/courseflow/internal/observability"
	"github.com/courseflow/courseflow/internal/organizations"
	"github.com/courseflow/courseflow/internal/platform/cache"
	"github.com/courseflow/courseflow/internal/platform/db"
	"github.com/courseflow/courseflow/internal/policy"
	"github.com/courseflow/courseflow/internal/rbac"
	"github.com/courseflow/courseflow/internal/shared"
	"github.com/courseflow/courseflow/internal/users"
	"github.com/courseflow/courseflow/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if len(os.Args) > 1 && os.Args[1] == "jobs" {
		if err := cli.RunJobs(ctx, cfg, os.Args[2:], os.Stdout); err != nil {
			logger.Error("jobs command", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	dbpool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: cfg.PGMaxConns})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "courseflow_session", cfg.SessionTTL, cfg.IsProduction())
	metrics := observability.NewMetrics()

	authz := rbac.NewAuthorizer(rbac.DefaultMatrix())
	gate := rbac.NewGate(authz, rbac.NewRegistry(), logger, metrics)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	auditStore := audit.NewPGStore(dbpool)
	var sink audit.Sink = auditStore
	if cfg.AuditSink == app.AuditSinkQueue {
		queueClient, err := jobs.NewClient(redisOpts)
		if err != nil {
			logger.Error("init audit queue", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := queueClient.Close(); err != nil {
				logger.Warn("audit queue close", slog.Any("error", err))
			}
		}()
		sink = jobs.NewQueueSink(queueClient)
	}
	auditWriter := audit.NewAsyncWriter(sink, audit.WriterConfig{
		BufferSize:   cfg.AuditBufferSize,
		WriteTimeout: cfg.AuditWriteTimeout,
	}, logger, metrics)
	layer := policy.NewLayer(gate, audit.NewPipeline(auditWriter, logger))
	logger.Info("audit writer ready", slog.String("sink", cfg.AuditSink), slog.Int("buffer", cfg.AuditBufferSize))

	authService := auth.NewService(auth.NewRepository(dbpool))
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	usersHandler := users.NewHandler(logger, users.NewService(users.NewRepository(dbpool)))
	contactsHandler := contacts.NewHandler(logger, contacts.NewService(contacts.NewRepository(dbpool)), authz)
	coursesHandler := courses.NewHandler(logger, courses.NewService(courses.NewRepository(dbpool)))
	organizationsHandler := organizations.NewHandler(logger, organizations.NewService(organizations.NewRepository(dbpool)))
	auditHandler := audithttp.NewHandler(logger, audit.NewService(auditStore), authz)
	permissionsHandler := rbac.NewPermissionsHandler(logger, authz)

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		SessionManager:       sessionManager,
		Policy:               layer,
		Metrics:              metrics,
		AuthHandler:          authHandler,
		UsersHandler:         usersHandler,
		ContactsHandler:      contactsHandler,
		CoursesHandler:       coursesHandler,
		OrganizationsHandler: organizationsHandler,
		AuditHandler:         auditHandler,
		PermissionsHandler:   permissionsHandler,
		JobHandler:           jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
	if err := auditWriter.Close(shutdownCtx); err != nil {
		logger.Error("drain audit writer", slog.Any("error", err))
	}
}
