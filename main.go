package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"food-console/bot"
	"food-console/config"
	"food-console/console"
	"food-console/db"
	"food-console/logger"
	"food-console/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("config")
	}
	logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Check for migrate subcommand
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(ctx, cfg)
		return
	}

	catalog, err := services.LoadCatalogFile(cfg.Menu.File)
	if err != nil {
		logger.Log.WithError(err).WithField("file", cfg.Menu.File).Fatal("load menu")
	}
	logger.Log.WithField("menu", catalog.MenuName).Debug("menu loaded")

	store, closeStore, err := services.OpenOrderStore(cfg)
	if err != nil {
		logger.Log.WithError(err).WithField("backend", cfg.Saves.Backend).Fatal("open order store")
	}
	defer closeStore()

	// Optional auto-migration for the postgres backend. Set AUTO_MIGRATE=1 (or "true").
	if v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE")); cfg.Saves.Backend == config.SavesBackendPostgres &&
		(v == "1" || strings.EqualFold(v, "true")) {
		if err := applyMigrations(ctx, false); err != nil {
			closeStore()
			logger.Log.WithError(err).Fatal("migrate")
		}
	}

	opts := []console.Option{console.WithDelivery(cfg.Delivery)}
	if cfg.Telegram.Enabled() {
		n, err := bot.New(cfg.Telegram)
		if err != nil {
			logger.Log.WithError(err).Warn("admin notifier disabled")
		} else {
			opts = append(opts, console.WithNotifier(n))
		}
	}

	c := console.New(os.Stdin, os.Stdout, catalog, store, opts...)
	if err := c.Run(ctx); err != nil && ctx.Err() == nil {
		closeStore()
		logger.Log.WithError(err).Fatal("console")
	}
}

func runMigrate(ctx context.Context, cfg *config.Config) {
	if err := db.Init(cfg.DB); err != nil {
		logger.Log.WithError(err).Fatal("db")
	}
	defer db.Close()

	if err := applyMigrations(ctx, true); err != nil {
		db.Close()
		logger.Log.WithError(err).Fatal("migrate")
	}
}
