package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"nutri-meal-planner/internal/assistant"
	"nutri-meal-planner/internal/config"
	"nutri-meal-planner/internal/database"
	"nutri-meal-planner/internal/generator"
	"nutri-meal-planner/internal/llm"
	"nutri-meal-planner/internal/mealplan"
	"nutri-meal-planner/internal/metrics"
	"nutri-meal-planner/internal/pantry"
	"nutri-meal-planner/internal/preferences"
	"nutri-meal-planner/internal/snapshot"
)

// Bootstrap opens the database and snapshot backend named by cfg, restores
// the state modules and picks the generator: a remote generator server when
// cfg.GeneratorURL is set, otherwise an in-process one.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.closers = append(a.closers, db.Close)
	a.metricsStore = metrics.NewStore(db.SQL)

	snapshots, err := openSnapshots(cfg, db)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Preferences = preferences.NewStore(ctx, snapshots)
	a.Pantry = pantry.NewStore(ctx, snapshots)
	a.MealPlan = mealplan.NewStore(ctx, snapshots)

	var gen assistant.Generator
	if cfg.GeneratorURL != "" {
		logrus.WithField("url", cfg.GeneratorURL).Debug("using remote generator")
		gen = assistant.NewHTTPGenerator(cfg.GeneratorURL, cfg.HTTPTimeout)
	} else {
		svc, closeFn, err := NewGeneratorService(ctx, cfg, a.metricsStore, nil)
		if err != nil {
			a.Close()
			return nil, err
		}
		if closeFn != nil {
			a.closers = append(a.closers, closeFn)
		}
		gen = svc
	}

	a.Assistant = assistant.New(a.Preferences, a.Pantry, a.MealPlan, gen, cfg.DefaultDaysToPlan)
	return a, nil
}

func openSnapshots(cfg *config.Config, db *database.DB) (snapshot.Store, error) {
	switch cfg.SnapshotBackend {
	case config.SnapshotFile:
		fs, err := snapshot.NewFileStore(cfg.SnapshotDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize snapshot directory: %w", err)
		}
		if err := fs.RemoveStaleTemps(); err != nil {
			logrus.WithError(err).Warn("failed to remove stale snapshot temp files")
		}
		return fs, nil
	case config.SnapshotSQLite, "":
		return snapshot.NewSQLiteStore(db.SQL), nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.SnapshotBackend)
	}
}

// NewGeneratorService builds the in-process generator on the configured LLM
// provider. Generations are recorded to metricsStore and collectors when
// they are non-nil. The returned close function may be nil.
func NewGeneratorService(
	ctx context.Context,
	cfg *config.Config,
	metricsStore *metrics.Store,
	collectors *metrics.Collectors,
) (*generator.Service, func() error, error) {
	textGen, closer, err := llm.NewFromConfig(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize %s client: %w", cfg.Provider, err)
	}
	var closeFn func() error
	if closer != nil {
		closeFn = closer.Close
	}
	return generator.NewService(textGen, metrics.NewRecorder(metricsStore, collectors)), closeFn, nil
}
