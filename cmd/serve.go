package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"redirectadmin/internal/api"
	"redirectadmin/internal/config"
	"redirectadmin/internal/ledger"
	"redirectadmin/internal/provisioner"
	"redirectadmin/internal/settings"
	"redirectadmin/internal/transfer"
	"redirectadmin/internal/worker"
	"redirectadmin/internal/wrapper"
	"redirectadmin/pkg/logger"
	"redirectadmin/pkg/storage/postgres"
	"redirectadmin/pkg/telegram"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// setupServer builds the service graph on top of storage, starts the HTTP
// server and the job workers, and returns a function that stops both.
func setupServer(ctx context.Context, cfg *config.Config, strg *postgres.PgSQL) func(ctx context.Context) {
	httpClient := &http.Client{Timeout: cfg.External.CallTimeout}

	sender, err := telegram.New(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal(ctx, "could not create telegram bot", zap.Error(err))
	}

	settingsProvider := settings.New(strg)
	wrp := wrapper.New(strg, settingsProvider, sender, wrapper.Options{
		HTTPClient: httpClient,
	})

	riverClient, err := worker.Start(ctx, strg.Pool, wrp, cfg.Worker.MaxWorkers)
	if err != nil {
		logger.Fatal(ctx, "could not start workers", zap.Error(err))
	}

	server := api.New(strg, api.Options{
		Settings:   settingsProvider,
		Ledger:     ledger.New(strg),
		Transferer: transfer.New(strg),
		Provisioner: provisioner.New(strg, settingsProvider, provisioner.Options{
			HTTPClient: httpClient,
		}),
		Wrapper:     wrp,
		MetricsPath: cfg.HTTP.MetricsPath,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           server.Router(),
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := httpServer.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}

		logger.Info(ctx, "stopping workers...")
		if err := riverClient.Stop(ctx); err != nil {
			logger.Error(ctx, "could not stop workers", zap.Error(err))
		}
	}
}

// serveCommand constructs the 'serve' subcommand that runs the API server and
// the background wrap workers until interrupted.
func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts API server and background workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			stop := setupServer(ctx, cfg, strg)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stop(shutdownCtx)
		},
	}

	return cmd
}
