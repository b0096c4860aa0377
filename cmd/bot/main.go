package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diegoclair/jadwal-bot/internal/config"
	"github.com/diegoclair/jadwal-bot/internal/database"
	"github.com/diegoclair/jadwal-bot/internal/domain/contract"
	"github.com/diegoclair/jadwal-bot/internal/domain/service"
	"github.com/diegoclair/jadwal-bot/internal/handlers"
	"github.com/diegoclair/jadwal-bot/internal/notifier"
	"github.com/diegoclair/jadwal-bot/migrator/sqlite"
	"github.com/diegoclair/jadwal-bot/pkg/logger"
	"github.com/diegoclair/jadwal-bot/pkg/metrics"
	"github.com/joho/godotenv"
	"github.com/slack-go/slack"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	logger.Init()
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Info(ctx, ".env file not found, using the environment only")
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Err(err))
		os.Exit(1)
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level, falling back to info", logger.String("log_level", cfg.LogLevel), logger.Err(err))
		_ = logger.SetLevelString("info")
	}

	if cfg.SlackBotToken == "" || cfg.SlackSigningSecret == "" {
		log.Warn(ctx, "slack credentials are not fully configured, messages and commands will fail")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "bot stopped with error", logger.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	log.Info(ctx, "running migrations")
	if err := sqlite.Migrate(db.DB()); err != nil {
		return err
	}

	dm := database.NewInstance(db)
	if err := seedTenants(ctx, dm, cfg); err != nil {
		return err
	}
	log.Info(ctx, "tenant registry seeded", logger.Int("tenants", len(cfg.Tenants)))

	metricsManager := metrics.NewManager()
	slackClient := slack.New(cfg.SlackBotToken)

	svc := service.New(dm, notifier.NewSlack(slackClient),
		service.WithLogger(log),
		service.WithMetrics(metricsManager),
		service.WithTimezone(cfg.Timezone),
		service.WithSchedules(cfg.ReminderCron, cfg.DailySummaryCron),
		service.WithMaxConcurrency(cfg.MaxConcurrency),
		service.WithCallTimeout(cfg.CallTimeout),
	)

	// passes get their own context so a signal lets them finish during Stop
	if err := svc.Scheduler.Start(context.Background()); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		svc.Scheduler.Stop(stopCtx)
	}()

	handler := handlers.New(svc.Jadwal, cfg.SlackSigningSecret, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/slack/commands", handler.HandleSlashCommand)
	mux.HandleFunc("/health", handler.HandleHealth)
	mux.HandleFunc("/ping", handler.HandlePing)
	mux.Handle("/metrics", metricsManager.Handler())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "server starting", logger.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return err
	}

	log.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// seedTenants upserts the configured tenants in one transaction.
func seedTenants(ctx context.Context, dm contract.DataManager, cfg *config.Config) error {
	return dm.WithTransaction(ctx, func(tx contract.DataManager) error {
		for _, tenant := range cfg.TenantEntities() {
			if err := tx.Tenant().Upsert(ctx, tenant); err != nil {
				return err
			}
		}
		return nil
	})
}
