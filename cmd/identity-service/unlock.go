package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/pribylovaa/go-identity-service/internal/config"
)

// runUnlock — подкоманда `identity-service unlock -id <identifier>`:
// административное снятие блокировки в обход HTTP.
func runUnlock(args []string) int {
	fs := flag.NewFlagSet("unlock", flag.ContinueOnError)

	var configPath, identifier string
	fs.StringVar(&configPath, "config", "", "path to config file")
	fs.StringVar(&identifier, "id", "", "identifier to unlock")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if identifier == "" {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fatalf("config: %v", err)
	}

	// Подкоманда не поднимает HTTP и не должна мигрировать схему.
	cfg.DB.SkipMigrations = true

	log := setupLogger(cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a, err := bootstrap(ctx, cfg, log, nil)
	if err != nil {
		return fatalf("bootstrap: %v", err)
	}
	defer a.close(log)

	if err := a.svc.Unlock(ctx, identifier); err != nil {
		return fatalf("unlock: %v", err)
	}

	fmt.Println("unlocked")
	return 0
}
