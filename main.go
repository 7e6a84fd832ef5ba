package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"bikefood/bot"
	"bikefood/config"
	"bikefood/db"
	"bikefood/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.Telegram.Token == "" {
		fmt.Fprintln(os.Stderr, "TOKEN not set")
		os.Exit(1)
	}

	// Check for migrate subcommand
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(cfg)
		return
	}

	// The order archive is optional: DB_NAME set means Postgres, otherwise
	// history lives in memory for the life of the process.
	var archive services.OrderArchive = services.NewMemoryArchive()
	if cfg.DB.Database != "" {
		if err := db.Init(context.Background(), cfg.DB); err != nil {
			fmt.Fprintln(os.Stderr, "db:", err)
			os.Exit(1)
		}
		defer db.Close()
		if v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE")); v == "1" || strings.EqualFold(v, "true") {
			if err := applyMigrations(context.Background(), false); err != nil {
				fmt.Fprintln(os.Stderr, "migrate:", err)
				os.Exit(1)
			}
		}
		archive = services.PGArchive{}
	}

	b, err := bot.New(cfg, archive)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bot:", err)
		os.Exit(1)
	}

	fmt.Println("Bot started.")
	b.Start()
}

func runMigrate(cfg *config.Config) {
	if cfg.DB.Database == "" {
		fmt.Fprintln(os.Stderr, "DB_NAME not set")
		os.Exit(1)
	}
	if err := db.Init(context.Background(), cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := applyMigrations(context.Background(), true); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
