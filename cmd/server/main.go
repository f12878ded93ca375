package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/smartkiosk/shelfjudge/internal/api"
	"github.com/smartkiosk/shelfjudge/internal/catalog"
	"github.com/smartkiosk/shelfjudge/internal/database"
	"github.com/smartkiosk/shelfjudge/internal/judge"
	"github.com/smartkiosk/shelfjudge/internal/snapshots"
	"github.com/smartkiosk/shelfjudge/internal/vision"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") == "true" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	port := envOr("PORT", "8080")
	dbPath := envOr("DB_PATH", "./shelfjudge.db")
	migrationsPath := envOr("MIGRATIONS_PATH", "./migrations")
	catalogFile := os.Getenv("CATALOG_FILE")
	reloadSpec := envOr("CATALOG_RELOAD_SPEC", "@every 5m")

	db, err := database.New(database.Config{Path: dbPath})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	if err := db.RunMigrations(migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	productRepo := database.NewProductRepository(db)
	judgmentRepo := database.NewJudgmentRepository(db)

	ctx := context.Background()
	snapshot, err := loadInitialCatalog(ctx, catalogFile, productRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load catalog")
	}
	store := catalog.NewStore(snapshot)
	log.Info().Int("products", snapshot.ProductCount()).Msg("catalog loaded")

	engine := judge.NewEngine(store, judge.Config{
		TolerancePercent:    envFloat("TOLERANCE_PERCENT", 0),
		ConfidenceThreshold: envFloat("CONFIDENCE_THRESHOLD", 0),
		MinWeightChange:     envFloat("MIN_WEIGHT_CHANGE", 0),
		PartialThreshold:    envFloat("PARTIAL_THRESHOLD", 0),
	})
	extractor := vision.NewExtractor(vision.ExtractorConfig{
		MaxDistancePx: envFloat("MAX_HAND_DISTANCE_PX", 0),
		TopK:          envInt("TOP_K", 0),
	})

	snapshotStore, err := snapshots.NewStore(envOr("SNAPSHOT_DIR", "./snapshots"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize snapshot store")
	}

	app := &api.App{
		Catalog:   store,
		Engine:    engine,
		Extractor: extractor,
		Judgments: judgmentRepo,
		Snapshots: snapshotStore,
	}
	router := api.NewRouter(app)

	// Periodic catalog reload: re-read the product table and swap the
	// snapshot so in-flight judgments stay consistent.
	scheduler := cron.New()
	_, err = scheduler.AddFunc(reloadSpec, func() {
		reloaded, err := productRepo.LoadCatalog(context.Background())
		if err != nil {
			log.Warn().Err(err).Msg("catalog reload failed, keeping current snapshot")
			return
		}
		store.Swap(reloaded)
		log.Info().Int("products", reloaded.ProductCount()).Msg("catalog reloaded")
	})
	if err != nil {
		log.Fatal().Err(err).Str("spec", reloadSpec).Msg("invalid catalog reload spec")
	}
	_, err = scheduler.AddFunc(envOr("SNAPSHOT_PRUNE_SPEC", "@daily"), func() {
		removed, err := snapshotStore.Prune(envDuration("SNAPSHOT_MAX_AGE", 7*24*time.Hour))
		if err != nil {
			log.Warn().Err(err).Msg("snapshot prune failed")
			return
		}
		if removed > 0 {
			log.Info().Int("removed", removed).Msg("pruned old snapshot folders")
		}
	})
	if err != nil {
		log.Fatal().Err(err).Msg("invalid snapshot prune spec")
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		log.Info().Str("port", port).Str("dbPath", dbPath).Msg("server starting")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("shutdown with error")
		os.Exit(1)
	}
	log.Info().Msg("shutdown complete")
}

// loadInitialCatalog prefers an explicit YAML file, then the product table.
// An empty table is seeded with the built-in assortment so a fresh install
// serves judgments immediately.
func loadInitialCatalog(ctx context.Context, catalogFile string, repo *database.ProductRepository) (*catalog.Memory, error) {
	if catalogFile != "" {
		snapshot, err := catalog.LoadYAML(catalogFile)
		if err != nil {
			return nil, err
		}
		if err := repo.UpsertProducts(ctx, snapshot.Products()); err != nil {
			return nil, err
		}
		return snapshot, nil
	}

	snapshot, err := repo.LoadCatalog(ctx)
	if err == nil {
		return snapshot, nil
	}

	log.Warn().Err(err).Msg("product table unavailable, seeding built-in catalog")
	defaults := catalog.DefaultProducts()
	if err := repo.UpsertProducts(ctx, defaults); err != nil {
		return nil, err
	}
	return catalog.NewMemory(defaults), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatal().Str("key", key).Str("value", v).Msg("invalid numeric environment variable")
	}
	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		log.Fatal().Str("key", key).Str("value", v).Msg("invalid duration environment variable")
	}
	return parsed
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		log.Fatal().Str("key", key).Str("value", v).Msg("invalid integer environment variable")
	}
	return parsed
}
