package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"seedmart/internal/config"
	"seedmart/internal/database"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog"
)

// Seeds the products table with a sample catalogue for local development:
// a handful of suppliers, each with a few seed varieties in stock.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database, zerolog.New(os.Stdout))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, database.Schema); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	varieties := []string{"Maize", "Teff", "Wheat", "Barley", "Sorghum", "Chickpea", "Lentil", "Sesame"}

	inserted := 0
	for supplierID := int64(1); supplierID <= 5; supplierID++ {
		for i := 0; i < 8; i++ {
			title := fmt.Sprintf("%s Seed - %s Grade", varieties[i%len(varieties)], gofakeit.LetterN(2))
			priceCents := int64(gofakeit.Number(500, 250000))
			stock := gofakeit.Number(10, 500)

			_, err := pool.Exec(ctx, `
				INSERT INTO products (title, unit_price_cents, supplier_id, stock, status)
				VALUES ($1, $2, $3, $4, 'ACTIVE')
			`, title, priceCents, supplierID, stock)
			if err != nil {
				log.Fatalf("Failed to insert product: %v", err)
			}
			inserted++
		}
	}

	fmt.Printf("Seeded %d products across 5 suppliers\n", inserted)
}
