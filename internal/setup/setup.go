package setup

import (
	"context"
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/go-sod/rango/internal/catalog"
	"github.com/go-sod/rango/internal/database"
	"github.com/go-sod/rango/internal/dataset"
	"github.com/go-sod/rango/internal/index"
	"github.com/go-sod/rango/internal/logging"
	"github.com/go-sod/rango/internal/metrics"
	"github.com/go-sod/rango/internal/seed"
	"github.com/go-sod/rango/internal/srvenv"
)

type LoggingConfigProvider interface {
	LoggingConfig() *logging.Config
}

type DatabaseConfigProvider interface {
	DatabaseConfig() *database.Config
}

type IndexConfigProvider interface {
	IndexConfig() *index.Config
}

type SeedConfigProvider interface {
	SeedConfig() *seed.Config
}

// Setup processes the environment into config and builds the server
// environment: logger, metrics views, database and a loaded catalog.
func Setup(ctx context.Context, config interface{}) (*srvenv.SrvEnv, error) {
	var serverEnvOpts []srvenv.Option
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	if loggingConfigProvider, ok := config.(LoggingConfigProvider); ok {
		cfg := loggingConfigProvider.LoggingConfig()
		logger := logging.NewLogger(cfg.Level, cfg.Development)
		ctx = logging.WithLogger(ctx, logger)
		serverEnvOpts = append(serverEnvOpts, srvenv.WithLogger(logger))
	}
	logger := logging.FromContext(ctx)

	if err := metrics.Register(); err != nil {
		return nil, fmt.Errorf("unable register metrics: %w", err)
	}

	dbConfigProvider, ok := config.(DatabaseConfigProvider)
	if !ok {
		return nil, fmt.Errorf("unable read database config")
	}
	logger.Info("Configuring db")
	db, err := database.NewFromEnv(ctx, dbConfigProvider.DatabaseConfig())
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	serverEnvOpts = append(serverEnvOpts, srvenv.WithDatabase(db))

	cat, err := provideCatalog(ctx, config, db)
	if err != nil {
		_ = db.Close(ctx)
		return nil, err
	}
	serverEnvOpts = append(serverEnvOpts, srvenv.WithCatalog(cat))

	return srvenv.New(serverEnvOpts...), nil
}

func provideCatalog(ctx context.Context, config interface{}, db *database.DB) (*catalog.Catalog, error) {
	logger := logging.FromContext(ctx)
	alg := index.AlgTypeKDTree
	if indexConfigProvider, ok := config.(IndexConfigProvider); ok {
		alg = indexConfigProvider.IndexConfig().AlgType()
	}
	logger.Infof("Configuring %s index", alg)
	provideFn, err := index.ProvideFor(alg)
	if err != nil {
		return nil, fmt.Errorf("unable create index provide function: %w", err)
	}

	cat := catalog.New(dataset.NewDB(db), provideFn)
	if err := cat.Load(ctx); err != nil {
		return nil, fmt.Errorf("unable load catalog: %w", err)
	}

	if seedConfigProvider, ok := config.(SeedConfigProvider); ok && seedConfigProvider.SeedConfig().File != "" {
		if _, err := seed.Load(ctx, seedConfigProvider.SeedConfig().File, cat); err != nil {
			return nil, fmt.Errorf("unable seed catalog: %w", err)
		}
	}
	return cat, nil
}
