package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"foodify/bot"
	"foodify/catalog"
	"foodify/config"
	"foodify/db"
	"foodify/models"
	"foodify/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// Check for migrate subcommand
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(cfg)
		return
	}

	if cfg.Telegram.Token == "" {
		fmt.Fprintln(os.Stderr, "TOKEN not set")
		os.Exit(1)
	}

	store := services.NewStore(catalog.Default(), services.Options{
		SubmitDelay:  cfg.Checkout.SubmitDelay,
		PlacedWindow: cfg.Checkout.PlacedWindow,
	})

	// Optional order archive: set DB_HOST to mirror placed orders into
	// Postgres. The session itself stays in memory either way.
	if cfg.DB.Enabled() {
		ctx := context.Background()
		pool, err := db.Connect(ctx, cfg.DB)
		if err != nil {
			fmt.Fprintln(os.Stderr, "db:", err)
			os.Exit(1)
		}
		defer pool.Close()

		if v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE")); v == "1" || strings.EqualFold(v, "true") {
			if err := applyMigrations(ctx, pool, false); err != nil {
				fmt.Fprintln(os.Stderr, "migrate:", err)
				os.Exit(1)
			}
		}

		archive := services.NewOrderArchive(pool)
		store.OnOrderPlaced(func(o models.Order) {
			if err := archive.Record(context.Background(), o); err != nil {
				log.Printf("archive order %s: %v", o.ID, err)
			}
		})
	}

	b, err := bot.New(cfg, store)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bot:", err)
		os.Exit(1)
	}

	fmt.Println("Bot started.")
	b.Start()
}

func runMigrate(cfg *config.Config) {
	if !cfg.DB.Enabled() {
		fmt.Fprintln(os.Stderr, "DB_HOST not set")
		os.Exit(1)
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := applyMigrations(ctx, pool, true); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
