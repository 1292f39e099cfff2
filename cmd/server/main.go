package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sheikh-saqib/cashbook/internal/api"
	"github.com/sheikh-saqib/cashbook/internal/config"
	"github.com/sheikh-saqib/cashbook/internal/events/kafka"
	"github.com/sheikh-saqib/cashbook/internal/idgen"
	interfaces "github.com/sheikh-saqib/cashbook/internal/interfaces"
	"github.com/sheikh-saqib/cashbook/internal/ledger"
	"github.com/sheikh-saqib/cashbook/internal/logging"
	"github.com/sheikh-saqib/cashbook/internal/storage/memory"
	"github.com/sheikh-saqib/cashbook/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	var store interfaces.ItemStore = memory.NewItemStore()
	ids := idgen.Default

	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		pg := postgres.NewItemStore(db)
		if err := pg.Migrate(ctx); err != nil {
			return err
		}

		// continue the id sequence after the items already stored
		last, err := pg.LastID(ctx)
		if err != nil {
			return err
		}
		ids = idgen.NewAfter(last)
		store = pg
		slog.Info("using postgres store", "last_item_id", last)
	}

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		p := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer p.Close()
		publisher = p
		slog.Info("publishing item events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	ledgerService := ledger.NewLedger(store, publisher, ids)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewHandler(ledgerService).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
