package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/smartkiosk/shelfjudge/internal/catalog"
	"github.com/smartkiosk/shelfjudge/internal/database"
)

func main() {
	var (
		dbPath         = flag.String("db", "./shelfjudge.db", "Path to sqlite database")
		migrationsPath = flag.String("migrations", "./migrations", "Path to migrations directory")
		catalogFile    = flag.String("file", "", "Catalog YAML file (built-in assortment when empty)")
	)
	flag.Parse()

	if env := os.Getenv("DB_PATH"); env != "" {
		*dbPath = env
	}
	if env := os.Getenv("CATALOG_FILE"); env != "" {
		*catalogFile = env
	}

	var products []catalog.ProductInfo
	if *catalogFile != "" {
		snapshot, err := catalog.LoadYAML(*catalogFile)
		if err != nil {
			log.Fatal("Failed to load catalog file:", err)
		}
		products = snapshot.Products()
	} else {
		products = catalog.DefaultProducts()
	}

	db, err := database.New(database.Config{Path: *dbPath})
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	if err := db.RunMigrations(*migrationsPath); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	repo := database.NewProductRepository(db)
	if err := repo.UpsertProducts(context.Background(), products); err != nil {
		log.Fatal("Failed to seed products:", err)
	}

	fmt.Printf("Seeded %d products into %s\n", len(products), *dbPath)
}
