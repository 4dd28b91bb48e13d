// Command seed populates an initialized store with the synthetic
// chargeback dataset. Reruns replace the previous dataset.
package main

import (
	"context"
	"errors"
	"log"

	"chargeflow/config"
	"chargeflow/db"
	"chargeflow/seed"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("bootstrap database pool: %v", err)
	}
	defer pool.Close()

	seeder := seed.NewSeeder(pool, seed.Config{
		RNGSeed:     cfg.Seed,
		BaselineMin: cfg.BaselineMin,
		BaselineMax: cfg.BaselineMax,
	})

	sum, err := seeder.Run(ctx)
	if errors.Is(err, seed.ErrStoreMissing) {
		log.Fatalf("store not initialized; run cmd/setup first")
	}
	if err != nil {
		log.Fatalf("seed store: %v", err)
	}

	log.Printf("seeded %d merchants, %d customers, %d transactions, %d chargebacks, %d case events",
		sum.Merchants, sum.Customers, sum.Transactions, sum.Chargebacks, sum.CaseEvents)
	for cat, n := range sum.ByCategory {
		log.Printf("  %s: %d cases", cat, n)
	}
}
