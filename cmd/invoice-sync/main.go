// Command invoice-sync marks orders paid when the invoice provider reports
// their voucher as paid. It is intended to be invoked by an external cron job.
//
// Exit codes: 0 = success, 1 = error (including per-order failures).
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/catering-backend/internal/adapter/postgres"
	activityrepo "github.com/heartmarshall/catering-backend/internal/adapter/postgres/activity"
	"github.com/heartmarshall/catering-backend/internal/adapter/postgres/order"
	"github.com/heartmarshall/catering-backend/internal/adapter/provider/invoicing"
	"github.com/heartmarshall/catering-backend/internal/app"
	"github.com/heartmarshall/catering-backend/internal/config"
	"github.com/heartmarshall/catering-backend/internal/service/activity"
	"github.com/heartmarshall/catering-backend/internal/service/invoice"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	if !cfg.Invoicing.Enabled() {
		logger.Error("invoicing is not configured")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database, "catering-invoice-sync")
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	client := invoicing.NewClient(invoicing.Config{
		BaseURL:   cfg.Invoicing.BaseURL,
		APIKey:    cfg.Invoicing.APIKey,
		Timeout:   cfg.Invoicing.Timeout,
		UserAgent: app.UserAgent(),
	}, logger)

	activitySvc := activity.NewService(logger, activityrepo.New(pool))
	svc := invoice.NewService(logger, order.New(pool), client, activitySvc)

	res, err := svc.SyncPayments(ctx)
	if err != nil {
		logger.Error("payment sync failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("payment sync completed",
		slog.Int("checked", res.Checked),
		slog.Int("updated", res.Updated),
		slog.Int("errors", len(res.Errors)),
	)
	if len(res.Errors) > 0 {
		os.Exit(1)
	}
}
