package container

import (
	"fmt"

	"biosense/adapters/memory"
	"biosense/adapters/postgres"
	"biosense/adapters/stats/confound"
	"biosense/adapters/stats/timeseries"
	"biosense/app"
	"biosense/internal"
	"biosense/internal/analysis"
	"biosense/internal/config"
	"biosense/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle.
// With DATABASE_URL set it wires the postgres adapters; otherwise the
// in-memory stores, which satisfy the same ports.
type Container struct {
	Config *config.Config
	Log    *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Stores
	Events    ports.EventStore
	Profiles  ports.ProfileStore
	Snapshots ports.SnapshotHistory

	// Services
	Capture      *app.CaptureService
	Resolver     *app.OutcomeResolver
	Analyzer     *app.CausalityAnalyzer
	ProfileCache *app.ProfileCache
	Trends       *app.TrendService
	Intake       *app.IntakeService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	c := &Container{
		Config: cfg,
		Log:    internal.NewDefaultLogger(),
	}

	if err := c.initStores(); err != nil {
		return nil, err
	}
	if err := c.initServices(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) initStores() error {
	if c.Config.Database.URL == "" {
		c.Log.Info("no DATABASE_URL configured, using in-memory stores")
		c.Events = memory.NewEventStore()
		c.Profiles = memory.NewProfileStore()
		c.Snapshots = memory.NewSnapshotHistory()
		return nil
	}

	db, err := sqlx.Connect("postgres", c.Config.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db
	c.Events = postgres.NewEventRepository(db)
	c.Profiles = postgres.NewProfileRepository(db)
	c.Snapshots = postgres.NewSnapshotRepository(db)
	return nil
}

func (c *Container) initServices() error {
	locks := app.NewUserLocks()

	analyzerCfg := app.DefaultAnalyzerConfig()
	analyzerCfg.Regression = analysis.RegressionConfig{
		MinSamples:            c.Config.Analyzer.MinSamples,
		FullConfidenceSamples: c.Config.Analyzer.FullConfidenceSamples,
	}
	c.Analyzer = app.NewCausalityAnalyzer(analyzerCfg)

	cache, err := app.NewProfileCache(c.Config.Analyzer.ProfileCacheSize, c.Profiles, c.Log.With("profile-cache"))
	if err != nil {
		return fmt.Errorf("failed to build profile cache: %w", err)
	}
	c.ProfileCache = cache

	resolverCfg := app.ResolverConfig{
		ResolutionDays:   c.Config.Resolver.ResolutionDays,
		ExpiryDays:       c.Config.Resolver.ExpiryDays,
		MaxParallelUsers: c.Config.Resolver.MaxParallelUsers,
	}
	c.Resolver = app.NewOutcomeResolver(c.Events, c.Analyzer, c.ProfileCache, locks, resolverCfg, c.Log.With("resolver"))

	captureCfg := app.CaptureConfig{
		SleepHour:   c.Config.Capture.SleepHour,
		SleepMinute: c.Config.Capture.SleepMinute,
	}
	c.Capture = app.NewCaptureService(c.Events, locks, captureCfg, c.Log.With("capture"))

	c.Trends = app.NewTrendService(confound.New(), timeseries.New())
	c.Intake = app.NewIntakeService(c.Snapshots, c.Resolver, c.Log.With("intake"))
	return nil
}

// Close releases infrastructure resources
func (c *Container) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
