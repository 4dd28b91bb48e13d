// Command setup creates the chargeflow tables and indexes. Refuses to
// touch an existing store unless force is configured.
package main

import (
	"context"
	"errors"
	"log"

	"chargeflow/config"
	"chargeflow/db"
	"chargeflow/schema"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("bootstrap database pool: %v", err)
	}
	defer pool.Close()

	err = schema.Initialize(ctx, pool, schema.Options{Force: cfg.Force})
	if errors.Is(err, schema.ErrStoreExists) {
		log.Fatalf("store already exists; set CHARGEFLOW_SETUP_FORCE=true to drop and recreate")
	}
	if err != nil {
		log.Fatalf("initialize store: %v", err)
	}

	log.Printf("store initialized: %d tables", len(schema.Tables))
}
