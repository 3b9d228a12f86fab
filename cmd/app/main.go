// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"app-access-server/internal/config"
	pg "app-access-server/internal/infra/db/postgres"
	"app-access-server/internal/infra/logging"
	"app-access-server/internal/infra/metrics"
	"app-access-server/internal/infra/notify"
	"app-access-server/internal/infra/sched"
	"app-access-server/internal/infra/web"
	"app-access-server/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema bootstrap failed")
	}

	// ---- Repositories ----
	codeRepo := pg.NewAccessCodeRepo(pool)
	sessionRepo := pg.NewSessionRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	payRepo := pg.NewPaymentRepo(pool)
	reminderRepo := pg.NewReminderLogRepo(pool)
	tm := pg.NewTxManager(pool)

	// ---- Use cases ----
	subUC := usecase.NewSubscriptionUseCase(subRepo, cfg.MonthLength(), logger)
	authUC := usecase.NewAuthUseCase(codeRepo, sessionRepo, subUC, tm, cfg.CodeTTL(), cfg.SessionTTL(), logger)
	payUC := usecase.NewPaymentUseCase(payRepo, subUC, tm, logger)

	// ---- Reminder worker ----
	if cfg.Reminder.Enabled {
		notifier := notify.NewLogNotifier(logger)
		reminderUC := usecase.NewReminderUseCase(subRepo, reminderRepo, notifier, cfg.Reminder.ThresholdDays, logger)
		worker := sched.NewReminderWorker(cfg.Reminder.Interval, reminderUC, logger)
		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("reminder worker stopped")
			}
		}()
	}

	// ---- HTTP ----
	srv := web.NewServer(authUC, subUC, payUC, cfg.Auth.BotSecret, cfg.Auth.AppSecret, logger)
	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("http server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// ---- Shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
}
