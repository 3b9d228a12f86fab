// Seeds a test subscription so the issue/verify flow can be exercised
// locally without going through a payment review.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/rs/zerolog"

	"app-access-server/internal/config"
	"app-access-server/internal/domain/ports/repository"
	pg "app-access-server/internal/infra/db/postgres"
	"app-access-server/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	userID := flag.String("user", "", "user to grant a subscription to")
	months := flag.Int("months", 1, "subscription length in months")
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user is required")
	}

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	logger := zerolog.Nop()
	subRepo := pg.NewSubscriptionRepo(pool)
	subUC := usecase.NewSubscriptionUseCase(subRepo, cfg.MonthLength(), &logger)

	newExpiry, err := subUC.Extend(ctx, repository.NoTX, *userID, *months)
	if err != nil {
		log.Fatalf("extend subscription: %v", err)
	}
	fmt.Printf("seeded: %s active until %s\n", *userID, newExpiry.Format(time.RFC3339))
}
